package domain

import (
	"context"
	"time"
)

// Survey is the post-event feedback record, one-to-one with a Registration.
// A blank row (all score columns null) is created at check-in; submission
// fills the scores and the derived overall score. Re-submission overwrites
// in place.
// swagger:model Survey
type Survey struct {
	ID                  int64      `json:"id"`
	RegistrationID      int64      `json:"registration_id"`
	SatisfactionScore   *int       `json:"satisfaction_score,omitempty"`
	UsefulnessScore     *int       `json:"usefulness_score,omitempty"`
	InstructorScore     *int       `json:"instructor_score,omitempty"`
	RecommendationScore *int       `json:"recommendation_score,omitempty"`
	OverallScore        *float64   `json:"overall_score,omitempty"`
	Comments            string     `json:"comments"`
	SubmittedAt         *time.Time `json:"submitted_at,omitempty"`
}

// SurveyScores are the four sub-scores of a submission. All are required;
// a missing score is a validation error.
type SurveyScores struct {
	Satisfaction   *int `json:"satisfaction_score"`
	Usefulness     *int `json:"usefulness_score"`
	Instructor     *int `json:"instructor_score"`
	Recommendation *int `json:"recommendation_score"`
}

// SurveyResponse is a submitted survey joined with participant and event
// context for the manager listing.
type SurveyResponse struct {
	Survey          *Survey   `json:"survey"`
	ParticipantName string    `json:"participant_name"`
	EventName       string    `json:"event_name"`
	OccurrenceDate  time.Time `json:"occurrence_date"`
}

// SurveyRepository defines storage operations for surveys.
type SurveyRepository interface {
	// CreateBlank inserts an all-null survey for the registration. No-op if
	// one already exists.
	CreateBlank(ctx context.Context, registrationID int64) error
	GetByRegistrationID(ctx context.Context, registrationID int64) (*Survey, error)
	// Upsert inserts the survey or, when a row for the registration already
	// exists, overwrites it in place.
	Upsert(ctx context.Context, survey *Survey) error
	ListResponses(ctx context.Context, p PaginationParams) ([]*SurveyResponse, int, error)
	Delete(ctx context.Context, surveyID int64) error
}

// SurveyService owns the survey lifecycle from blank creation at check-in
// through submission.
type SurveyService interface {
	GetForRegistration(ctx context.Context, caller Identity, registrationID int64) (*Survey, error)
	// Submit validates the scores, computes the overall mean (two-decimal
	// rounding), and upserts the survey row with the submission timestamp.
	Submit(ctx context.Context, caller Identity, registrationID int64, scores SurveyScores, comments string) (*Survey, error)
	ListResponses(ctx context.Context, caller Identity, p PaginationParams) ([]*SurveyResponse, int, error)
	Delete(ctx context.Context, caller Identity, surveyID int64) error
}
