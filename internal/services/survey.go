package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ellarises/internal/domain"
)

type surveyService struct {
	surveyRepo      domain.SurveyRepository
	regRepo         domain.RegistrationRepository
	participantRepo domain.ParticipantRepository
	parentRepo      domain.ParentRepository
}

// NewSurveyService creates a SurveyService with the given repositories.
func NewSurveyService(
	surveyRepo domain.SurveyRepository,
	regRepo domain.RegistrationRepository,
	participantRepo domain.ParticipantRepository,
	parentRepo domain.ParentRepository,
) domain.SurveyService {
	return &surveyService{
		surveyRepo:      surveyRepo,
		regRepo:         regRepo,
		participantRepo: participantRepo,
		parentRepo:      parentRepo,
	}
}

func (s *surveyService) GetForRegistration(ctx context.Context, caller domain.Identity, registrationID int64) (*domain.Survey, error) {
	if err := s.authorizeRegistration(ctx, caller, registrationID); err != nil {
		return nil, err
	}
	survey, err := s.surveyRepo.GetByRegistrationID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return survey, nil
}

func (s *surveyService) Submit(ctx context.Context, caller domain.Identity, registrationID int64, scores domain.SurveyScores, comments string) (*domain.Survey, error) {
	// Validate before any lookup or write so an incomplete submission can
	// never disturb an existing survey row.
	if scores.Satisfaction == nil || scores.Usefulness == nil || scores.Instructor == nil || scores.Recommendation == nil {
		return nil, fmt.Errorf("%w: all four survey scores are required", domain.ErrInvalidInput)
	}
	if err := s.authorizeRegistration(ctx, caller, registrationID); err != nil {
		return nil, err
	}

	overall := roundTwoDecimals(float64(*scores.Satisfaction+*scores.Usefulness+*scores.Instructor+*scores.Recommendation) / 4)
	now := time.Now()
	survey := &domain.Survey{
		RegistrationID:      registrationID,
		SatisfactionScore:   scores.Satisfaction,
		UsefulnessScore:     scores.Usefulness,
		InstructorScore:     scores.Instructor,
		RecommendationScore: scores.Recommendation,
		OverallScore:        &overall,
		Comments:            comments,
		SubmittedAt:         &now,
	}
	// Upsert keeps exactly one survey row per registration; a re-submission
	// overwrites the previous answers in place.
	if err := s.surveyRepo.Upsert(ctx, survey); err != nil {
		return nil, fmt.Errorf("save survey: %w", err)
	}
	return survey, nil
}

func (s *surveyService) ListResponses(ctx context.Context, caller domain.Identity, p domain.PaginationParams) ([]*domain.SurveyResponse, int, error) {
	if !caller.IsManager() {
		return nil, 0, domain.ErrForbidden
	}
	responses, total, err := s.surveyRepo.ListResponses(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list survey responses: %w", err)
	}
	if responses == nil {
		responses = []*domain.SurveyResponse{}
	}
	return responses, total, nil
}

func (s *surveyService) Delete(ctx context.Context, caller domain.Identity, surveyID int64) error {
	if !caller.IsManager() {
		return domain.ErrForbidden
	}
	if err := s.surveyRepo.Delete(ctx, surveyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete survey: %w", err)
	}
	return nil
}

// authorizeRegistration verifies the registration exists and the caller is a
// manager or the parent owning the registered participant.
func (s *surveyService) authorizeRegistration(ctx context.Context, caller domain.Identity, registrationID int64) error {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if caller.IsManager() {
		return nil
	}
	participant, err := s.participantRepo.GetByID(ctx, reg.ParticipantID)
	if err != nil {
		return fmt.Errorf("get participant: %w", err)
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

func roundTwoDecimals(v float64) float64 {
	return math.Round(v*100) / 100
}
