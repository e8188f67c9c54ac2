package ehrclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trialmatch/trialmatch/internal/domain/resource"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client())), srv
}

func TestListResources(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/resources" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("patient_id"); got != "P001" {
			t.Errorf("expected patient_id P001, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("expected limit 10, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resources": [
				{"metadata": {
					"state": "COMPLETED",
					"createdTime": "2025-06-01T00:00:00Z",
					"fetchTime": "2025-06-01T00:00:05Z",
					"processedTime": "2025-06-01T00:00:20Z",
					"identifier": {"key": "res_P001_0001", "uid": "0001", "patientId": "P001"},
					"resourceType": "LabReport",
					"version": "R4"
				}, "humanReadableStr": "body", "aiSummary": "summary"}
			],
			"totalCount": 1,
			"hasMore": false
		}`))
	})

	list, err := c.ListResources(context.Background(), "P001", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.TotalCount != 1 || len(list.Resources) != 1 {
		t.Fatalf("expected 1 resource, got %d (total %d)", len(list.Resources), list.TotalCount)
	}
	r := list.Resources[0]
	if r.Metadata.State != resource.StateCompleted {
		t.Errorf("expected COMPLETED, got %s", r.Metadata.State)
	}
	if r.AISummary == nil || *r.AISummary != "summary" {
		t.Error("expected aiSummary to decode")
	}
}

func TestListResourcesNormalizesNumericState(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resources": [
				{"metadata": {
					"state": 2,
					"createdTime": "2025-06-01T00:00:00Z",
					"fetchTime": "2025-06-01T00:00:05Z",
					"identifier": {"key": "res_P001_0001", "uid": "0001", "patientId": "P001"},
					"resourceType": "ClinicalNote",
					"version": 1
				}, "humanReadableStr": "body"}
			],
			"totalCount": 1,
			"hasMore": false
		}`))
	})

	list, err := c.ListResources(context.Background(), "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := list.Resources[0]
	if r.Metadata.State != resource.StateProcessing {
		t.Errorf("expected numeric state 2 to normalize to PROCESSING, got %s", r.Metadata.State)
	}
	if r.Metadata.Version != resource.VersionR4 {
		t.Errorf("expected numeric version 1 to normalize to R4, got %s", r.Metadata.Version)
	}
}

func TestFetchDetailNotFound(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"resource not found"}`, http.StatusNotFound)
	})

	_, err := c.FetchDetail(context.Background(), "P001", "9999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchDetailPath(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/patients/P001/resources/0002" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metadata": {
			"state": "NOT_STARTED",
			"createdTime": "2025-06-01T00:00:00Z",
			"fetchTime": "2025-06-01T00:00:05Z",
			"identifier": {"key": "res_P001_0002", "uid": "0002", "patientId": "P001"},
			"resourceType": "VitalSigns",
			"version": "R4"
		}, "humanReadableStr": "vitals"}`))
	})

	detail, err := c.FetchDetail(context.Background(), "P001", "0002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Metadata.Identifier.UID != "0002" {
		t.Errorf("expected uid 0002, got %s", detail.Metadata.Identifier.UID)
	}
}

func TestServerErrorIsNotNotFound(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ListPatients(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("500 must not map to ErrNotFound")
	}
}

func TestGetDerivedFacts(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/patients/P002/derived-facts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"patientId": "P002",
			"ageYears": 61,
			"sex": "F",
			"diagnoses": [{"code": "E11.9", "text": "Type 2 diabetes mellitus", "since": "2019-03-01"}],
			"medications": ["metformin"],
			"keyLabs": {"a1c": 8.1, "eGFR": 88.0, "ldl": 130.5, "sbp": 142, "dbp": 88},
			"exclusions": [],
			"location": "Columbus, OH",
			"extractedAt": "2025-06-01T00:00:00Z"
		}`))
	})

	f, err := c.GetDerivedFacts(context.Background(), "P002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PatientID != "P002" || f.KeyLabs.A1C != 8.1 {
		t.Fatalf("facts did not decode: %+v", f)
	}
}
