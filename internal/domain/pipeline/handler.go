package pipeline

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/pipeline/stats", h.GetStats)
	api.GET("/pipeline/gold-profiles", h.ListGoldProfiles)
	api.GET("/pipeline/silver-entities", h.ListSilverEntities)
	api.POST("/pipeline/documents", h.ProcessDocument)
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

// GoldProfilesResponse is the wire envelope for the gold-profile listing.
type GoldProfilesResponse struct {
	GoldProfiles []*GoldProfile `json:"goldProfiles"`
}

func (h *Handler) ListGoldProfiles(c echo.Context) error {
	profiles, err := h.svc.GoldProfiles(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, GoldProfilesResponse{GoldProfiles: profiles})
}

// SilverEntitiesResponse is the wire envelope for the silver-entity listing.
type SilverEntitiesResponse struct {
	SilverEntities []SilverEntity `json:"silverEntities"`
	TotalCount     int            `json:"totalCount"`
}

func (h *Handler) ListSilverEntities(c echo.Context) error {
	entities, err := h.svc.SilverEntities(c.Request().Context(), c.QueryParam("entity_type"), c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, SilverEntitiesResponse{SilverEntities: entities, TotalCount: len(entities)})
}

// ProcessDocumentRequest is one raw document submitted for extraction.
type ProcessDocumentRequest struct {
	PatientID       string `json:"patientId"`
	ResourceType    string `json:"resourceType"`
	DocumentContent string `json:"documentContent"`
}

func (h *Handler) ProcessDocument(c echo.Context) error {
	var req ProcessDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.ProcessDocument(c.Request().Context(), req.PatientID, req.ResourceType, req.DocumentContent)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
