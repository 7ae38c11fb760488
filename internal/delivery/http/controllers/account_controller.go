package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "ellarises/internal/delivery/http/helpers"
	"ellarises/internal/delivery/http/middleware"
	"ellarises/internal/domain"
)

type AccountController struct {
	Logger  *slog.Logger
	Service domain.EnrollmentService
}

func NewAccountController(logger *slog.Logger, svc domain.EnrollmentService) *AccountController {
	return &AccountController{
		Logger:  logger,
		Service: svc,
	}
}

// AccountResponse is the response body for GET /account.
type AccountResponse struct {
	Parent       *domain.Parent        `json:"parent"`
	Participants []*domain.Participant `json:"participants"`
}

// GetAccount godoc
// @Summary Get the caller's account
// @Description Returns the parent profile and all participants under it. Managers may fetch any account via the user_id query parameter.
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Account to fetch (manager only, defaults to caller)"
// @Success 200 {object} helpers.APIResponse "data contains parent and participants"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /account [get]
func (c *AccountController) GetAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	userID := identity.UserID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		parsed, ok := queryID(w, raw, "user_id")
		if !ok {
			return
		}
		userID = parsed
	}

	parent, participants, err := c.Service.GetAccount(r.Context(), identity, userID)
	if err != nil {
		c.writeServiceError(w, r, err, "account not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, AccountResponse{Parent: parent, Participants: participants})
}

// UpdateParentRequest is the request body for PATCH /account/parent.
// Omitted fields keep their current values.
type UpdateParentRequest struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	City               *string `json:"city"`
	State              *string `json:"state"`
	Zip                *string `json:"zip"`
	LanguagePreference *string `json:"language_preference"`
}

// Validate implements helpers.Validator.
func (u UpdateParentRequest) Validate() []string {
	if u.Email != nil && !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(*u.Email))) {
		return []string{"invalid email format"}
	}
	return nil
}

// UpdateParent godoc
// @Summary Update the caller's parent profile
// @Description Partial update: omitted fields keep their current values.
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateParentRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated parent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /account/parent [patch]
func (c *AccountController) UpdateParent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateParentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	parent := &domain.Parent{UserID: identity.UserID}
	applyString(&parent.FirstName, req.FirstName)
	applyString(&parent.LastName, req.LastName)
	applyString(&parent.Email, req.Email)
	applyString(&parent.Phone, req.Phone)
	applyString(&parent.City, req.City)
	applyString(&parent.State, req.State)
	applyString(&parent.Zip, req.Zip)
	applyString(&parent.LanguagePreference, req.LanguagePreference)

	updated, err := c.Service.UpdateParent(r.Context(), identity, parent)
	if err != nil {
		c.writeServiceError(w, r, err, "parent not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, updated)
}

// ParticipantRequest is the request body for POST /account/participants and
// PATCH /participants/{participantID}.
type ParticipantRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	DOB              string `json:"dob"` // "2006-01-02"
	Grade            string `json:"grade"`
	SchoolOrEmployer string `json:"school_or_employer"`
	FieldOfInterest  string `json:"field_of_interest"`
	GraduationStatus string `json:"graduation_status"`
}

// Validate implements helpers.Validator.
func (p ParticipantRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if p.DOB != "" {
		if _, err := time.Parse("2006-01-02", p.DOB); err != nil {
			errs = append(errs, "dob must be formatted as YYYY-MM-DD")
		}
	}
	return errs
}

func (p ParticipantRequest) toDomain() *domain.Participant {
	participant := &domain.Participant{
		FirstName:        strings.TrimSpace(p.FirstName),
		LastName:         strings.TrimSpace(p.LastName),
		Email:            strings.TrimSpace(strings.ToLower(p.Email)),
		Grade:            strings.TrimSpace(p.Grade),
		SchoolOrEmployer: strings.TrimSpace(p.SchoolOrEmployer),
		FieldOfInterest:  strings.TrimSpace(p.FieldOfInterest),
		GraduationStatus: strings.TrimSpace(p.GraduationStatus),
	}
	if p.DOB != "" {
		dob, _ := time.Parse("2006-01-02", p.DOB)
		participant.DOB = &dob
	}
	return participant
}

// AddParticipantResponse is the response body for POST /account/participants.
type AddParticipantResponse struct {
	Participant          *domain.Participant `json:"participant"`
	RegistrationsCreated int64               `json:"registrations_created"`
}

// AddParticipant godoc
// @Summary Add a participant to the caller's account
// @Description Creates a participant and registers them for every occurrence still open for registration.
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ParticipantRequest true "Participant data"
// @Success 201 {object} helpers.APIResponse "data contains participant and registrations_created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /account/participants [post]
func (c *AccountController) AddParticipant(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ParticipantRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	participant, created, err := c.Service.AddParticipant(r.Context(), identity, req.toDomain())
	if err != nil {
		c.writeServiceError(w, r, err, "parent not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, AddParticipantResponse{
		Participant:          participant,
		RegistrationsCreated: created,
	})
}

// UpdateParticipant godoc
// @Summary Update a participant
// @Description Updates a participant owned by the caller. Managers may update any participant. Omitted fields keep their current values.
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param participantID path int true "Participant ID"
// @Param body body ParticipantRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated participant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/{participantID} [patch]
func (c *AccountController) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID, ok := pathID(w, r, "participantID")
	if !ok {
		return
	}
	var req ParticipantRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	participant := req.toDomain()
	participant.ID = participantID
	updated, err := c.Service.UpdateParticipant(r.Context(), identity, participant)
	if err != nil {
		c.writeServiceError(w, r, err, "participant not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteParticipant godoc
// @Summary Delete a participant
// @Description Removes the participant with all their registrations, surveys, and milestones in one transaction. Allowed for the owning parent or a manager.
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param participantID path int true "Participant ID"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/{participantID} [delete]
func (c *AccountController) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID, ok := pathID(w, r, "participantID")
	if !ok {
		return
	}

	if err := c.Service.DeleteParticipant(r.Context(), identity, participantID); err != nil {
		c.writeServiceError(w, r, err, "participant not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

// DeleteParentAccount godoc
// @Summary Delete a parent account
// @Description Removes the parent, every participant under it with their dependents, and the login credential in one transaction. Manager only.
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param userID path int true "User ID of the account to delete"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /accounts/{userID} [delete]
func (c *AccountController) DeleteParentAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := c.Service.DeleteParentAccount(r.Context(), identity, userID); err != nil {
		c.writeServiceError(w, r, err, "account not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (c *AccountController) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}

// applyString copies src into dst when src is set.
func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
