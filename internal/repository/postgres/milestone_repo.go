package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ellarises/internal/domain"
)

type milestoneRepository struct {
	DB *sql.DB
}

func NewMilestoneRepository(db *sql.DB) domain.MilestoneRepository {
	return &milestoneRepository{
		DB: db,
	}
}

func (r *milestoneRepository) Create(ctx context.Context, m *domain.Milestone) error {
	query := `
		INSERT INTO milestones (participant_id, title, milestone_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING milestone_id
	`
	return r.DB.QueryRowContext(ctx, query, m.ParticipantID, m.Title, m.Date, m.Status, m.CreatedAt).
		Scan(&m.ID)
}

func (r *milestoneRepository) GetByID(ctx context.Context, id int64) (*domain.Milestone, error) {
	query := `
		SELECT milestone_id, participant_id, title, milestone_date, status, created_at
		FROM milestones
		WHERE milestone_id = $1
	`
	m := &domain.Milestone{}
	var date sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&m.ID, &m.ParticipantID, &m.Title, &date, &m.Status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if date.Valid {
		m.Date = &date.Time
	}
	return m, nil
}

func (r *milestoneRepository) ListByParticipantID(ctx context.Context, participantID int64) ([]*domain.Milestone, error) {
	query := `
		SELECT milestone_id, participant_id, title, milestone_date, status, created_at
		FROM milestones
		WHERE participant_id = $1
		ORDER BY milestone_date NULLS LAST, milestone_id
	`
	rows, err := r.DB.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []*domain.Milestone
	for rows.Next() {
		m := &domain.Milestone{}
		var date sql.NullTime
		if err := rows.Scan(&m.ID, &m.ParticipantID, &m.Title, &date, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		if date.Valid {
			m.Date = &date.Time
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (r *milestoneRepository) Update(ctx context.Context, m *domain.Milestone) error {
	query := `
		UPDATE milestones
		SET title = $2, milestone_date = $3, status = $4
		WHERE milestone_id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, m.ID, m.Title, m.Date, m.Status)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *milestoneRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM milestones WHERE milestone_id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
