package encounter

import (
	"encoding/json"
	"net/http"
	"time"

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
	api.GET("/encounters", h.ListEncounters)
	api.POST("/encounters", h.CreateEncounter)
	api.GET("/encounters/:id", h.GetEncounter)
	api.PATCH("/encounters/:id", h.PatchEncounter)
	api.POST("/encounters/:id/transcript", h.AttachTranscript)
	api.POST("/encounters/:id/generate-soap", h.GenerateSOAP)
	api.POST("/encounters/:id/sign", h.SignEncounter)
}

type createRequest struct {
	PatientID   string  `json:"patient_id"`
	PatientName string  `json:"patient_name"`
	PatientDOB  *string `json:"patient_dob"`
	PatientMRN  *string `json:"patient_mrn"`
	ClinicianID string  `json:"clinician_id"`
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

// createResponse denormalizes the resolved identities onto the new
// encounter so clients can render it without extra lookups.
type createResponse struct {
	*Encounter
	PatientName        string  `json:"patient_name"`
	ClinicianName      string  `json:"clinician_name"`
	ClinicianSpecialty *string `json:"clinician_specialty,omitempty"`
}

func (h *Handler) CreateEncounter(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := CreateInput{
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		PatientMRN:  req.PatientMRN,
		ClinicianID: req.ClinicianID,
	}
	if req.PatientDOB != nil {
		dob, err := time.Parse("2006-01-02", *req.PatientDOB)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_dob, expected YYYY-MM-DD")
		}
		in.PatientDOB = &dob
	}

	result, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, createResponse{
		Encounter:          result.Encounter,
		PatientName:        result.Patient.Name,
		ClinicianName:      result.Clinician.Name,
		ClinicianSpecialty: result.Clinician.Specialty,
	})
}

func (h *Handler) ListEncounters(c echo.Context) error {
	encs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if encs == nil {
		encs = []*Encounter{}
	}
	return c.JSON(http.StatusOK, encs)
}

func (h *Handler) GetEncounter(c echo.Context) error {
	enc, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

// PatchEncounter applies a tagged partial update. Unknown fields are
// rejected so a misspelled field cannot silently no-op.
func (h *Handler) PatchEncounter(c echo.Context) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	var patch Patch
	if err := dec.Decode(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	enc, err := h.svc.ApplyPatch(c.Request().Context(), c.Param("id"), &patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

func (h *Handler) AttachTranscript(c echo.Context) error {
	var req transcriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Transcript == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transcript is required")
	}

	enc, err := h.svc.AttachTranscript(c.Request().Context(), c.Param("id"), req.Transcript)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

func (h *Handler) GenerateSOAP(c echo.Context) error {
	enc, result, err := h.svc.GenerateNote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, struct {
		*Encounter
		ProcessingTimeMS float64 `json:"processing_time_ms"`
	}{enc, result.ProcessingTimeMS})
}

func (h *Handler) SignEncounter(c echo.Context) error {
	enc, err := h.svc.Sign(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

func httpError(err error) error {
	return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
}
