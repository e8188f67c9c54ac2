package resource

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trialmatch/trialmatch/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/resources", h.ListResources)
	api.GET("/patients/:id/resources", h.ListPatientResources)
	api.GET("/patients/:id/resources/:uid", h.GetResource)
}

// ListResponse is the wire envelope for listing calls.
type ListResponse struct {
	Resources  []*EHRResource `json:"resources"`
	TotalCount int            `json:"totalCount"`
	HasMore    bool           `json:"hasMore"`
}

func (h *Handler) ListResources(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.list(c, f)
}

func (h *Handler) ListPatientResources(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.PatientID = c.Param("id")
	return h.list(c, f)
}

func (h *Handler) list(c echo.Context, f Filter) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if items == nil {
		items = []*EHRResource{}
	}
	return c.JSON(http.StatusOK, ListResponse{
		Resources:  items,
		TotalCount: total,
		HasMore:    pg.HasNext(total),
	})
}

func (h *Handler) GetResource(c echo.Context) error {
	r, err := h.svc.Get(c.Request().Context(), c.Param("id"), c.Param("uid"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "resource not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

// filterFromQuery builds a Filter from query params, accepting either the
// state token or its legacy integer code.
func filterFromQuery(c echo.Context) (Filter, error) {
	f := Filter{
		PatientID:    c.QueryParam("patient_id"),
		ResourceType: c.QueryParam("resource_type"),
	}
	if raw := c.QueryParam("state"); raw != "" {
		state, err := ParseProcessingState(raw)
		if err != nil {
			return Filter{}, err
		}
		f.State = state
	}
	return f, nil
}
