package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ellarises/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	occurrenceRepo domain.OccurrenceRepository
	regRepo        domain.RegistrationRepository
	cascadeRepo    domain.CascadeRepository
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	occurrenceRepo domain.OccurrenceRepository,
	regRepo domain.RegistrationRepository,
	cascadeRepo domain.CascadeRepository,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		occurrenceRepo: occurrenceRepo,
		regRepo:        regRepo,
		cascadeRepo:    cascadeRepo,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, caller domain.Identity, req *domain.CreateEventRequest) (*domain.CreateEventResult, error) {
	if !caller.IsManager() {
		return nil, domain.ErrForbidden
	}
	if req.Event.Name == "" {
		return nil, fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}

	// Expand the schedule before touching the database so a bad recurrence
	// request creates nothing.
	occs, err := GenerateOccurrences(GenerateOccurrencesParams{
		Pattern:              req.Event.RecurrencePattern,
		FirstStart:           req.FirstStartDate,
		FirstEnd:             req.FirstEndDate,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		Location:             req.Location,
		Capacity:             req.Event.DefaultCapacity,
		RepeatUntil:          req.RepeatUntil,
		RegistrationLeadDays: req.RegistrationLeadDays,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event := req.Event
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, &event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	for _, occ := range occs {
		occ.EventID = event.ID
		occ.CreatedAt = now
	}
	if err := s.occurrenceRepo.CreateBatch(ctx, occs); err != nil {
		return nil, fmt.Errorf("create occurrences: %w", err)
	}

	var created int64
	for _, occ := range occs {
		n, err := s.regRepo.FanOutOccurrence(ctx, occ.ID)
		if err != nil {
			return nil, fmt.Errorf("fan out occurrence %d: %w", occ.ID, err)
		}
		created += n
	}

	return &domain.CreateEventResult{
		Event:                &event,
		Occurrences:          occs,
		RegistrationsCreated: created,
	}, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, caller domain.Identity, event *domain.Event) (*domain.Event, error) {
	if !caller.IsManager() {
		return nil, domain.ErrForbidden
	}
	existing, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.RecurrencePattern != "" && !event.RecurrencePattern.Valid() {
		return nil, fmt.Errorf("%w: unknown recurrence pattern %q", domain.ErrInvalidInput, event.RecurrencePattern)
	}

	if event.Name != "" {
		existing.Name = event.Name
	}
	if event.EventType != "" {
		existing.EventType = event.EventType
	}
	if event.Description != "" {
		existing.Description = event.Description
	}
	if event.RecurrencePattern != "" {
		existing.RecurrencePattern = event.RecurrencePattern
	}
	if event.DefaultCapacity > 0 {
		existing.DefaultCapacity = event.DefaultCapacity
	}
	existing.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return existing, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID int64) (*domain.EventWithOccurrences, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	occs, err := s.occurrenceRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	if occs == nil {
		occs = []*domain.Occurrence{}
	}
	return &domain.EventWithOccurrences{Event: event, Occurrences: occs}, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) AddOccurrence(ctx context.Context, caller domain.Identity, occ *domain.Occurrence) (*domain.Occurrence, int64, error) {
	if !caller.IsManager() {
		return nil, 0, domain.ErrForbidden
	}
	if _, err := s.eventRepo.GetByID(ctx, occ.EventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if err := validateOccurrence(occ); err != nil {
		return nil, 0, err
	}

	occ.CreatedAt = time.Now()
	if err := s.occurrenceRepo.Create(ctx, occ); err != nil {
		return nil, 0, fmt.Errorf("create occurrence: %w", err)
	}
	created, err := s.regRepo.FanOutOccurrence(ctx, occ.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("fan out occurrence: %w", err)
	}
	return occ, created, nil
}

func (s *eventService) UpdateOccurrence(ctx context.Context, caller domain.Identity, occ *domain.Occurrence) (*domain.Occurrence, error) {
	if !caller.IsManager() {
		return nil, domain.ErrForbidden
	}
	existing, err := s.occurrenceRepo.GetByID(ctx, occ.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get occurrence: %w", err)
	}
	occ.EventID = existing.EventID
	occ.CreatedAt = existing.CreatedAt
	if err := validateOccurrence(occ); err != nil {
		return nil, err
	}
	if err := s.occurrenceRepo.Update(ctx, occ); err != nil {
		return nil, fmt.Errorf("update occurrence: %w", err)
	}
	return occ, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, caller domain.Identity, eventID int64) error {
	if !caller.IsManager() {
		return domain.ErrForbidden
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.cascadeRepo.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) DeleteOccurrence(ctx context.Context, caller domain.Identity, occurrenceID int64) error {
	if !caller.IsManager() {
		return domain.ErrForbidden
	}
	if _, err := s.occurrenceRepo.GetByID(ctx, occurrenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get occurrence: %w", err)
	}
	if err := s.cascadeRepo.DeleteOccurrence(ctx, occurrenceID); err != nil {
		return fmt.Errorf("delete occurrence: %w", err)
	}
	return nil
}

// validateOccurrence checks the schedule invariants for a manually entered
// occurrence: end not before start, deadline not after start.
func validateOccurrence(occ *domain.Occurrence) error {
	if occ.StartDate.IsZero() || occ.EndDate.IsZero() {
		return fmt.Errorf("%w: occurrence start and end dates are required", domain.ErrInvalidInput)
	}
	if occ.EndDate.Before(occ.StartDate) {
		return fmt.Errorf("%w: occurrence end date before start date", domain.ErrInvalidInput)
	}
	if !occ.DeadlineDate.IsZero() && occ.DeadlineDate.After(occ.StartDate) {
		return fmt.Errorf("%w: registration deadline after occurrence start", domain.ErrInvalidInput)
	}
	if occ.DeadlineTime == "" {
		occ.DeadlineTime = domain.DeadlineTime
	}
	return nil
}
