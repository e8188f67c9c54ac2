package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the liveness probe on the root group and the
// regeneration endpoint on the versioned API group.
func (h *Handler) RegisterRoutes(root *echo.Echo, api *echo.Group) {
	root.GET("/health", h.Health)
	api.POST("/generate", h.Generate)
}

// HealthResponse reports service liveness and installed batch counts.
type HealthResponse struct {
	Status        string `json:"status"`
	BatchID       string `json:"batchId"`
	Seed          uint64 `json:"seed"`
	PatientCount  int    `json:"patientCount"`
	ResourceCount int    `json:"resourceCount"`
	FactsCount    int    `json:"factsCount"`
}

func (h *Handler) Health(c echo.Context) error {
	counts, err := h.service.Counts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	m := h.service.Manifest()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        "healthy",
		BatchID:       m.BatchID,
		Seed:          m.Seed,
		PatientCount:  counts.Patients,
		ResourceCount: counts.Resources,
		FactsCount:    counts.DerivedFacts,
	})
}

// GenerateResponse describes the batch produced by a regeneration call.
type GenerateResponse struct {
	BatchID       string `json:"batchId"`
	Seed          uint64 `json:"seed"`
	PatientCount  int    `json:"patientCount"`
	ResourceCount int    `json:"resourceCount"`
}

func (h *Handler) Generate(c echo.Context) error {
	var opts GenerateOptions
	if err := c.Bind(&opts); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ds, err := h.service.Regenerate(c.Request().Context(), opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, GenerateResponse{
		BatchID:       ds.Manifest.BatchID,
		Seed:          ds.Manifest.Seed,
		PatientCount:  len(ds.Patients),
		ResourceCount: len(ds.Resources),
	})
}
