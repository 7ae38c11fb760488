package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ellarises/internal/domain"
)

type surveyRepository struct {
	DB *sql.DB
}

func NewSurveyRepository(db *sql.DB) domain.SurveyRepository {
	return &surveyRepository{
		DB: db,
	}
}

// CreateBlank inserts an all-null survey row for the registration. A row that
// already exists is left untouched.
func (r *surveyRepository) CreateBlank(ctx context.Context, registrationID int64) error {
	query := `
		INSERT INTO surveys (registration_id)
		VALUES ($1)
		ON CONFLICT (registration_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, registrationID)
	return err
}

func (r *surveyRepository) GetByRegistrationID(ctx context.Context, registrationID int64) (*domain.Survey, error) {
	query := `
		SELECT survey_id, registration_id, satisfaction_score, usefulness_score, instructor_score, recommendation_score, overall_score, comments, submitted_at
		FROM surveys
		WHERE registration_id = $1
	`
	s := &domain.Survey{}
	var comments sql.NullString
	var submittedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, registrationID).Scan(
		&s.ID, &s.RegistrationID,
		&s.SatisfactionScore, &s.UsefulnessScore, &s.InstructorScore, &s.RecommendationScore,
		&s.OverallScore, &comments, &submittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.Comments = comments.String
	if submittedAt.Valid {
		s.SubmittedAt = &submittedAt.Time
	}
	return s, nil
}

// Upsert writes the survey, overwriting any previous submission for the same
// registration in place.
func (r *surveyRepository) Upsert(ctx context.Context, survey *domain.Survey) error {
	query := `
		INSERT INTO surveys (registration_id, satisfaction_score, usefulness_score, instructor_score, recommendation_score, overall_score, comments, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (registration_id) DO UPDATE
		SET satisfaction_score = EXCLUDED.satisfaction_score,
		    usefulness_score = EXCLUDED.usefulness_score,
		    instructor_score = EXCLUDED.instructor_score,
		    recommendation_score = EXCLUDED.recommendation_score,
		    overall_score = EXCLUDED.overall_score,
		    comments = EXCLUDED.comments,
		    submitted_at = EXCLUDED.submitted_at
		RETURNING survey_id
	`
	return r.DB.QueryRowContext(ctx, query,
		survey.RegistrationID,
		survey.SatisfactionScore, survey.UsefulnessScore, survey.InstructorScore, survey.RecommendationScore,
		survey.OverallScore, survey.Comments, survey.SubmittedAt).
		Scan(&survey.ID)
}

func (r *surveyRepository) ListResponses(ctx context.Context, p domain.PaginationParams) ([]*domain.SurveyResponse, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM surveys WHERE submitted_at IS NOT NULL`
	if err := r.DB.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT s.survey_id, s.registration_id, s.satisfaction_score, s.usefulness_score, s.instructor_score, s.recommendation_score, s.overall_score, s.comments, s.submitted_at,
		       p.first_name || ' ' || p.last_name,
		       e.name,
		       o.start_date
		FROM surveys s
		INNER JOIN registrations r ON r.registration_id = s.registration_id
		INNER JOIN participants p ON p.participant_id = r.participant_id
		INNER JOIN event_occurrences o ON o.occurrence_id = r.occurrence_id
		INNER JOIN events e ON e.event_id = o.event_id
		WHERE s.submitted_at IS NOT NULL
		ORDER BY s.submitted_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var responses []*domain.SurveyResponse
	for rows.Next() {
		s := &domain.Survey{}
		resp := &domain.SurveyResponse{Survey: s}
		var comments sql.NullString
		var submittedAt sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.RegistrationID,
			&s.SatisfactionScore, &s.UsefulnessScore, &s.InstructorScore, &s.RecommendationScore,
			&s.OverallScore, &comments, &submittedAt,
			&resp.ParticipantName, &resp.EventName, &resp.OccurrenceDate,
		); err != nil {
			return nil, 0, err
		}
		s.Comments = comments.String
		if submittedAt.Valid {
			s.SubmittedAt = &submittedAt.Time
		}
		responses = append(responses, resp)
	}
	return responses, total, rows.Err()
}

func (r *surveyRepository) Delete(ctx context.Context, surveyID int64) error {
	query := `DELETE FROM surveys WHERE survey_id = $1`
	result, err := r.DB.ExecContext(ctx, query, surveyID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
