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

type MilestoneController struct {
	Logger  *slog.Logger
	Service domain.MilestoneService
}

func NewMilestoneController(logger *slog.Logger, svc domain.MilestoneService) *MilestoneController {
	return &MilestoneController{
		Logger:  logger,
		Service: svc,
	}
}

// MilestoneRequest is the request body for POST /participants/{participantID}/milestones
// and PATCH /milestones/{milestoneID}.
type MilestoneRequest struct {
	Title  string `json:"title"`
	Date   string `json:"date"` // "2006-01-02"
	Status string `json:"status"`
}

// Validate implements helpers.Validator.
func (m MilestoneRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, "title is required")
	}
	if m.Date != "" {
		if _, err := time.Parse(dateLayout, m.Date); err != nil {
			errs = append(errs, "date must be formatted as YYYY-MM-DD")
		}
	}
	return errs
}

func (m MilestoneRequest) toDomain() *domain.Milestone {
	milestone := &domain.Milestone{
		Title:  strings.TrimSpace(m.Title),
		Status: strings.TrimSpace(m.Status),
	}
	if m.Date != "" {
		date, _ := time.Parse(dateLayout, m.Date)
		milestone.Date = &date
	}
	return milestone
}

// AddMilestone godoc
// @Summary Add a milestone to a participant
// @Description Creates a personal goal for the participant. Status defaults to "Not Started". Allowed for the owning parent or a manager.
// @Tags milestones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param participantID path int true "Participant ID"
// @Param body body MilestoneRequest true "Milestone data"
// @Success 201 {object} helpers.APIResponse "data contains the created milestone"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/{participantID}/milestones [post]
func (c *MilestoneController) AddMilestone(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID, ok := pathID(w, r, "participantID")
	if !ok {
		return
	}
	var req MilestoneRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	milestone := req.toDomain()
	milestone.ParticipantID = participantID
	created, err := c.Service.Add(r.Context(), identity, milestone)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, created)
}

// ListMilestones godoc
// @Summary List a participant's milestones
// @Tags milestones
// @Produce json
// @Security BearerAuth
// @Param participantID path int true "Participant ID"
// @Success 200 {object} helpers.APIResponse "data is an array of milestones"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/{participantID}/milestones [get]
func (c *MilestoneController) ListMilestones(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID, ok := pathID(w, r, "participantID")
	if !ok {
		return
	}

	milestones, err := c.Service.ListForParticipant(r.Context(), identity, participantID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if milestones == nil {
		milestones = []*domain.Milestone{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, milestones)
}

// UpdateMilestone godoc
// @Summary Update a milestone
// @Tags milestones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param milestoneID path int true "Milestone ID"
// @Param body body MilestoneRequest true "Milestone data"
// @Success 200 {object} helpers.APIResponse "data contains the updated milestone"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /milestones/{milestoneID} [patch]
func (c *MilestoneController) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	milestoneID, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}
	var req MilestoneRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	milestone := req.toDomain()
	milestone.ID = milestoneID
	updated, err := c.Service.Update(r.Context(), identity, milestone)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteMilestone godoc
// @Summary Delete a milestone
// @Tags milestones
// @Produce json
// @Security BearerAuth
// @Param milestoneID path int true "Milestone ID"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /milestones/{milestoneID} [delete]
func (c *MilestoneController) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	milestoneID, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}

	if err := c.Service.Delete(r.Context(), identity, milestoneID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (c *MilestoneController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
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
