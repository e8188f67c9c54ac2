package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestIDGenerated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	h := RequestID()(func(c echo.Context) error {
		seen, _ = c.Get("request_id").(string)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen == "" {
		t.Fatal("expected request_id to be set on context")
	}
	if got := rec.Header().Get(requestIDHeader); got != seen {
		t.Fatalf("response header = %q, context = %q", got, seen)
	}
}

func TestRequestIDHonorsCaller(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected caller request id to round-trip, got %q", got)
	}
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})
	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", httpErr.Code)
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/x?y=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Logger(zerolog.Nop())(func(c echo.Context) error {
		return c.String(http.StatusTeapot, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected handler status to pass through, got %d", rec.Code)
	}
}
