package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ellarises/internal/domain"
)

type attendanceService struct {
	regRepo         domain.RegistrationRepository
	occurrenceRepo  domain.OccurrenceRepository
	participantRepo domain.ParticipantRepository
	parentRepo      domain.ParentRepository
	surveyRepo      domain.SurveyRepository
}

// NewAttendanceService creates an AttendanceService with the given repositories.
func NewAttendanceService(
	regRepo domain.RegistrationRepository,
	occurrenceRepo domain.OccurrenceRepository,
	participantRepo domain.ParticipantRepository,
	parentRepo domain.ParentRepository,
	surveyRepo domain.SurveyRepository,
) domain.AttendanceService {
	return &attendanceService{
		regRepo:         regRepo,
		occurrenceRepo:  occurrenceRepo,
		participantRepo: participantRepo,
		parentRepo:      parentRepo,
		surveyRepo:      surveyRepo,
	}
}

func (s *attendanceService) Register(ctx context.Context, caller domain.Identity, participantID, occurrenceID int64) (*domain.Registration, bool, error) {
	if err := s.checkOwnership(ctx, caller, participantID); err != nil {
		return nil, false, err
	}
	if _, err := s.occurrenceRepo.GetByID(ctx, occurrenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get occurrence: %w", err)
	}

	// Already registered; make registration idempotent. The unique constraint
	// on (participant_id, occurrence_id) covers the race between this check
	// and the insert.
	if existing, err := s.regRepo.GetByParticipantAndOccurrence(ctx, participantID, occurrenceID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get registration: %w", err)
	}

	reg := &domain.Registration{
		ParticipantID: participantID,
		OccurrenceID:  occurrenceID,
		Status:        domain.StatusRegistered,
		Attended:      false,
		CreatedAt:     time.Now(),
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, false, fmt.Errorf("create registration: %w", err)
	}
	return reg, true, nil
}

func (s *attendanceService) SetStatus(ctx context.Context, caller domain.Identity, registrationID int64, status string) error {
	if status != domain.StatusNotAttending && status != domain.StatusPlanningToAttend {
		return fmt.Errorf("%w: status must be %q or %q", domain.ErrInvalidInput, domain.StatusNotAttending, domain.StatusPlanningToAttend)
	}
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if err := s.checkOwnership(ctx, caller, reg.ParticipantID); err != nil {
		return err
	}
	if err := s.regRepo.UpdateStatus(ctx, registrationID, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

func (s *attendanceService) CheckIn(ctx context.Context, caller domain.Identity, registrationID int64) (*domain.Registration, error) {
	if !caller.IsManager() {
		return nil, domain.ErrForbidden
	}
	if _, err := s.regRepo.GetByID(ctx, registrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if err := s.regRepo.CheckIn(ctx, registrationID, time.Now()); err != nil {
		return nil, fmt.Errorf("check in: %w", err)
	}
	// Checking in opens the feedback window: a blank survey appears now and
	// is filled in later. CreateBlank is a no-op when one already exists.
	if err := s.surveyRepo.CreateBlank(ctx, registrationID); err != nil {
		return nil, fmt.Errorf("create blank survey: %w", err)
	}

	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("reload registration: %w", err)
	}
	return reg, nil
}

func (s *attendanceService) ListForParticipant(ctx context.Context, caller domain.Identity, participantID int64) ([]*domain.RegistrationWithOccurrence, error) {
	if err := s.checkOwnership(ctx, caller, participantID); err != nil {
		return nil, err
	}
	regs, err := s.regRepo.ListByParticipantID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.RegistrationWithOccurrence{}
	}
	return regs, nil
}

func (s *attendanceService) ListForOccurrence(ctx context.Context, caller domain.Identity, occurrenceID int64) ([]*domain.Registration, error) {
	if !caller.IsManager() {
		return nil, domain.ErrForbidden
	}
	if _, err := s.occurrenceRepo.GetByID(ctx, occurrenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get occurrence: %w", err)
	}
	regs, err := s.regRepo.ListByOccurrenceID(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

// checkOwnership verifies the caller is a manager or the parent owning the
// participant.
func (s *attendanceService) checkOwnership(ctx context.Context, caller domain.Identity, participantID int64) error {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get participant: %w", err)
	}
	if caller.IsManager() {
		return nil
	}
	parent, err := s.parentRepo.GetByID(ctx, participant.ParentID)
	if err != nil {
		return fmt.Errorf("get parent: %w", err)
	}
	if caller.UserID != parent.UserID {
		return domain.ErrForbidden
	}
	return nil
}
