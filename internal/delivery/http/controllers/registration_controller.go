package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "ellarises/internal/delivery/http/helpers"
	"ellarises/internal/delivery/http/middleware"
	"ellarises/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
}

func NewRegistrationController(logger *slog.Logger, svc domain.AttendanceService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a participant for an occurrence
// @Description Registers the participant with status "registered". Idempotent: returns 201 when a new registration is created, 200 when the pair already exists. Allowed for the owning parent or a manager.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param participantID path int true "Participant ID"
// @Param occurrenceID path int true "Occurrence ID"
// @Success 200 {object} helpers.APIResponse "Already registered"
// @Success 201 {object} helpers.APIResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/{participantID}/occurrences/{occurrenceID}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID, ok := pathID(w, r, "participantID")
	if !ok {
		return
	}
	occurrenceID, ok := pathID(w, r, "occurrenceID")
	if !ok {
		return
	}

	reg, created, err := c.Service.Register(r.Context(), identity, participantID, occurrenceID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if created {
		h.WriteJSONSuccess(w, http.StatusCreated, reg)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

// SetStatusRequest is the request body for PATCH /registrations/{registrationID}/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements helpers.Validator.
func (s SetStatusRequest) Validate() []string {
	if s.Status == "" {
		return []string{"status is required"}
	}
	return nil
}

// SetStatus godoc
// @Summary Update a registration's attendance status
// @Description Sets the status to "Planning to attend" or "Not attending". Allowed for the owning parent or a manager.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationID path int true "Registration ID"
// @Param body body SetStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains updated: true"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/status [patch]
func (c *RegistrationController) SetStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	registrationID, ok := pathID(w, r, "registrationID")
	if !ok {
		return
	}
	var req SetStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Service.SetStatus(r.Context(), identity, registrationID, req.Status); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"updated": true})
}

// CheckIn godoc
// @Summary Check a participant in at the door
// @Description Marks the registration attended and creates a blank survey for it if none exists. Manager only.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path int true "Registration ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated registration"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/checkin [post]
func (c *RegistrationController) CheckIn(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	registrationID, ok := pathID(w, r, "registrationID")
	if !ok {
		return
	}

	reg, err := c.Service.CheckIn(r.Context(), identity, registrationID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListForParticipant godoc
// @Summary List a participant's registrations
// @Description Returns the participant's registrations with their occurrences and event names. Allowed for the owning parent or a manager.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param participantID path int true "Participant ID"
// @Success 200 {object} helpers.APIResponse "data is an array of registration + occurrence objects"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/{participantID}/registrations [get]
func (c *RegistrationController) ListForParticipant(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID, ok := pathID(w, r, "participantID")
	if !ok {
		return
	}

	regs, err := c.Service.ListForParticipant(r.Context(), identity, participantID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if regs == nil {
		regs = []*domain.RegistrationWithOccurrence{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListForOccurrence godoc
// @Summary List all registrations for an occurrence
// @Description Returns every registration for the occurrence, for the check-in roster. Manager only.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param occurrenceID path int true "Occurrence ID"
// @Success 200 {object} helpers.APIResponse "data is an array of registrations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /occurrences/{occurrenceID}/registrations [get]
func (c *RegistrationController) ListForOccurrence(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	occurrenceID, ok := pathID(w, r, "occurrenceID")
	if !ok {
		return
	}

	regs, err := c.Service.ListForOccurrence(r.Context(), identity, occurrenceID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, regs)
}

func (c *RegistrationController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
