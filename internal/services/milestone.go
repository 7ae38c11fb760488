package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ellarises/internal/domain"
)

type milestoneService struct {
	milestoneRepo   domain.MilestoneRepository
	participantRepo domain.ParticipantRepository
	parentRepo      domain.ParentRepository
}

// NewMilestoneService creates a MilestoneService with the given repositories.
func NewMilestoneService(
	milestoneRepo domain.MilestoneRepository,
	participantRepo domain.ParticipantRepository,
	parentRepo domain.ParentRepository,
) domain.MilestoneService {
	return &milestoneService{
		milestoneRepo:   milestoneRepo,
		participantRepo: participantRepo,
		parentRepo:      parentRepo,
	}
}

func (s *milestoneService) Add(ctx context.Context, caller domain.Identity, m *domain.Milestone) (*domain.Milestone, error) {
	if err := s.checkOwnership(ctx, caller, m.ParticipantID); err != nil {
		return nil, err
	}
	if m.Title == "" {
		return nil, fmt.Errorf("%w: milestone title is required", domain.ErrInvalidInput)
	}
	if m.Status == "" {
		m.Status = domain.MilestoneNotStarted
	}
	m.CreatedAt = time.Now()
	if err := s.milestoneRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}
	return m, nil
}

func (s *milestoneService) Update(ctx context.Context, caller domain.Identity, m *domain.Milestone) (*domain.Milestone, error) {
	existing, err := s.milestoneRepo.GetByID(ctx, m.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	if err := s.checkOwnership(ctx, caller, existing.ParticipantID); err != nil {
		return nil, err
	}

	if m.Title != "" {
		existing.Title = m.Title
	}
	if m.Date != nil {
		existing.Date = m.Date
	}
	if m.Status != "" {
		existing.Status = m.Status
	}
	if err := s.milestoneRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update milestone: %w", err)
	}
	return existing, nil
}

func (s *milestoneService) Delete(ctx context.Context, caller domain.Identity, milestoneID int64) error {
	existing, err := s.milestoneRepo.GetByID(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get milestone: %w", err)
	}
	if err := s.checkOwnership(ctx, caller, existing.ParticipantID); err != nil {
		return err
	}
	if err := s.milestoneRepo.Delete(ctx, milestoneID); err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}
	return nil
}

func (s *milestoneService) ListForParticipant(ctx context.Context, caller domain.Identity, participantID int64) ([]*domain.Milestone, error) {
	if err := s.checkOwnership(ctx, caller, participantID); err != nil {
		return nil, err
	}
	milestones, err := s.milestoneRepo.ListByParticipantID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	if milestones == nil {
		milestones = []*domain.Milestone{}
	}
	return milestones, nil
}

func (s *milestoneService) checkOwnership(ctx context.Context, caller domain.Identity, participantID int64) error {
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
