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

const dateLayout = "2006-01-02"
const timeLayout = "15:04"

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name              string `json:"name"`
	EventType         string `json:"event_type"`
	Description       string `json:"description"`
	RecurrencePattern string `json:"recurrence_pattern"`
	Capacity          int    `json:"capacity"`

	FirstStartDate       string `json:"first_start_date"` // "2006-01-02"
	FirstEndDate         string `json:"first_end_date"`
	StartTime            string `json:"start_time"` // "15:04"
	EndTime              string `json:"end_time"`
	Location             string `json:"location"`
	RepeatUntil          string `json:"repeat_until"`
	RegistrationLeadDays *int   `json:"registration_lead_days"` // required
}

// Validate implements helpers.Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !domain.RecurrencePattern(c.RecurrencePattern).Valid() {
		errs = append(errs, `recurrence_pattern must be one of "None", "Daily", "Weekly", "Monthly"`)
	}
	if c.FirstStartDate == "" {
		errs = append(errs, "first_start_date is required")
	} else if _, err := time.Parse(dateLayout, c.FirstStartDate); err != nil {
		errs = append(errs, "first_start_date must be formatted as YYYY-MM-DD")
	}
	if c.FirstEndDate != "" {
		if _, err := time.Parse(dateLayout, c.FirstEndDate); err != nil {
			errs = append(errs, "first_end_date must be formatted as YYYY-MM-DD")
		}
	}
	if c.RepeatUntil != "" {
		if _, err := time.Parse(dateLayout, c.RepeatUntil); err != nil {
			errs = append(errs, "repeat_until must be formatted as YYYY-MM-DD")
		}
	}
	for _, tv := range []struct{ name, val string }{{"start_time", c.StartTime}, {"end_time", c.EndTime}} {
		if tv.val != "" {
			if _, err := time.Parse(timeLayout, tv.val); err != nil {
				errs = append(errs, tv.name+" must be formatted as HH:MM")
			}
		}
	}
	if c.RegistrationLeadDays == nil {
		errs = append(errs, "registration_lead_days is required")
	} else if *c.RegistrationLeadDays < 0 {
		errs = append(errs, "registration_lead_days must not be negative")
	}
	return errs
}

// CreateEvent godoc
// @Summary Create an event with its occurrence series
// @Description Creates the event template, generates the full occurrence series from the recurrence pattern, and registers every existing participant for each occurrence. Manager only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data and schedule"
// @Success 201 {object} helpers.APIResponse "data contains event, occurrences, registrations_created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	firstStart, _ := time.Parse(dateLayout, req.FirstStartDate)
	firstEnd := firstStart
	if req.FirstEndDate != "" {
		firstEnd, _ = time.Parse(dateLayout, req.FirstEndDate)
	}
	var repeatUntil time.Time
	if req.RepeatUntil != "" {
		repeatUntil, _ = time.Parse(dateLayout, req.RepeatUntil)
	}

	result, err := c.Service.CreateEvent(r.Context(), identity, &domain.CreateEventRequest{
		Event: domain.Event{
			Name:              strings.TrimSpace(req.Name),
			EventType:         strings.TrimSpace(req.EventType),
			Description:       strings.TrimSpace(req.Description),
			RecurrencePattern: domain.RecurrencePattern(req.RecurrencePattern),
			DefaultCapacity:   req.Capacity,
		},
		FirstStartDate:       firstStart,
		FirstEndDate:         firstEnd,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		Location:             strings.TrimSpace(req.Location),
		RepeatUntil:          repeatUntil,
		RegistrationLeadDays: *req.RegistrationLeadDays,
	})
	if err != nil {
		c.writeServiceError(w, r, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, result)
}

// ListEvents godoc
// @Summary List all events
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is an array of events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err, "")
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get one event with its occurrences
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains event and occurrences"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// Omitted fields keep their current values.
type UpdateEventRequest struct {
	Name              *string `json:"name"`
	EventType         *string `json:"event_type"`
	Description       *string `json:"description"`
	RecurrencePattern *string `json:"recurrence_pattern"`
	Capacity          *int    `json:"capacity"`
}

// Validate implements helpers.Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if u.RecurrencePattern != nil && !domain.RecurrencePattern(*u.RecurrencePattern).Valid() {
		errs = append(errs, `recurrence_pattern must be one of "None", "Daily", "Weekly", "Monthly"`)
	}
	return errs
}

// UpdateEvent godoc
// @Summary Update an event template
// @Description Partial update of the event template, including the recurrence pattern. A pattern change applies to future occurrence generation; already-scheduled occurrences are unchanged. Manager only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	event := &domain.Event{ID: eventID}
	applyString(&event.Name, req.Name)
	applyString(&event.EventType, req.EventType)
	applyString(&event.Description, req.Description)
	if req.RecurrencePattern != nil {
		event.RecurrencePattern = domain.RecurrencePattern(*req.RecurrencePattern)
	}
	if req.Capacity != nil {
		event.DefaultCapacity = *req.Capacity
	}

	updated, err := c.Service.UpdateEvent(r.Context(), identity, event)
	if err != nil {
		c.writeServiceError(w, r, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Delete an event and everything under it
// @Description Removes the event, all of its occurrences, and every registration and survey referencing them in one transaction. Manager only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), identity, eventID); err != nil {
		c.writeServiceError(w, r, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

// OccurrenceRequest is the request body for POST /events/{eventID}/occurrences
// and PATCH /occurrences/{occurrenceID}.
type OccurrenceRequest struct {
	StartDate    string `json:"start_date"` // "2006-01-02"
	StartTime    string `json:"start_time"` // "15:04"
	EndDate      string `json:"end_date"`
	EndTime      string `json:"end_time"`
	Location     string `json:"location"`
	Capacity     int    `json:"capacity"`
	DeadlineDate string `json:"registration_deadline_date"`
	DeadlineTime string `json:"registration_deadline_time"`
}

// Validate implements helpers.Validator.
func (o OccurrenceRequest) Validate() []string {
	var errs []string
	if o.StartDate == "" {
		errs = append(errs, "start_date is required")
	} else if _, err := time.Parse(dateLayout, o.StartDate); err != nil {
		errs = append(errs, "start_date must be formatted as YYYY-MM-DD")
	}
	for _, dv := range []struct{ name, val string }{{"end_date", o.EndDate}, {"registration_deadline_date", o.DeadlineDate}} {
		if dv.val != "" {
			if _, err := time.Parse(dateLayout, dv.val); err != nil {
				errs = append(errs, dv.name+" must be formatted as YYYY-MM-DD")
			}
		}
	}
	for _, tv := range []struct{ name, val string }{{"start_time", o.StartTime}, {"end_time", o.EndTime}, {"registration_deadline_time", o.DeadlineTime}} {
		if tv.val != "" {
			if _, err := time.Parse(timeLayout, tv.val); err != nil {
				errs = append(errs, tv.name+" must be formatted as HH:MM")
			}
		}
	}
	return errs
}

func (o OccurrenceRequest) toDomain() *domain.Occurrence {
	occ := &domain.Occurrence{
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		Location:     strings.TrimSpace(o.Location),
		Capacity:     o.Capacity,
		DeadlineTime: o.DeadlineTime,
	}
	if o.StartDate != "" {
		occ.StartDate, _ = time.Parse(dateLayout, o.StartDate)
	}
	if o.EndDate != "" {
		occ.EndDate, _ = time.Parse(dateLayout, o.EndDate)
	} else {
		occ.EndDate = occ.StartDate
	}
	if o.DeadlineDate != "" {
		occ.DeadlineDate, _ = time.Parse(dateLayout, o.DeadlineDate)
	}
	return occ
}

// AddOccurrenceResponse is the response body for POST /events/{eventID}/occurrences.
type AddOccurrenceResponse struct {
	Occurrence           *domain.Occurrence `json:"occurrence"`
	RegistrationsCreated int64              `json:"registrations_created"`
}

// AddOccurrence godoc
// @Summary Add an occurrence to an event
// @Description Inserts one occurrence and registers every existing participant for it. Manager only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body OccurrenceRequest true "Occurrence data"
// @Success 201 {object} helpers.APIResponse "data contains occurrence and registrations_created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/occurrences [post]
func (c *EventController) AddOccurrence(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req OccurrenceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	occ := req.toDomain()
	occ.EventID = eventID
	created, regs, err := c.Service.AddOccurrence(r.Context(), identity, occ)
	if err != nil {
		c.writeServiceError(w, r, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, AddOccurrenceResponse{
		Occurrence:           created,
		RegistrationsCreated: regs,
	})
}

// UpdateOccurrence godoc
// @Summary Update an occurrence
// @Description Updates one occurrence's schedule fields. Manager only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param occurrenceID path int true "Occurrence ID"
// @Param body body OccurrenceRequest true "Occurrence data"
// @Success 200 {object} helpers.APIResponse "data contains the updated occurrence"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /occurrences/{occurrenceID} [patch]
func (c *EventController) UpdateOccurrence(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	occurrenceID, ok := pathID(w, r, "occurrenceID")
	if !ok {
		return
	}
	var req OccurrenceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	occ := req.toDomain()
	occ.ID = occurrenceID
	updated, err := c.Service.UpdateOccurrence(r.Context(), identity, occ)
	if err != nil {
		c.writeServiceError(w, r, err, "occurrence not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteOccurrence godoc
// @Summary Delete an occurrence and everything under it
// @Description Removes one occurrence and every registration and survey referencing it in one transaction. Manager only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param occurrenceID path int true "Occurrence ID"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /occurrences/{occurrenceID} [delete]
func (c *EventController) DeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	occurrenceID, ok := pathID(w, r, "occurrenceID")
	if !ok {
		return
	}
	if err := c.Service.DeleteOccurrence(r.Context(), identity, occurrenceID); err != nil {
		c.writeServiceError(w, r, err, "occurrence not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
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
