package export

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scribe/scribe/internal/platform/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/encounters/:id/fhir", h.ExportBundle)
	api.POST("/encounters/:id/fhir-export", h.PushBundle)
}

func (h *Handler) ExportBundle(c echo.Context) error {
	bundle, err := h.svc.Export(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, bundle)
}

type pushResponse struct {
	ID           string `json:"id"`
	ResourceType string `json:"resourceType"`
	EncounterID  string `json:"encounter_id"`
	FHIRBundleID string `json:"fhir_bundle_id"`
}

func (h *Handler) PushBundle(c echo.Context) error {
	result, enc, err := h.svc.ExportAndPush(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pushResponse{
		ID:           result.ID,
		ResourceType: result.ResourceType,
		EncounterID:  enc.ID,
		FHIRBundleID: *enc.FHIRBundleID,
	})
}
