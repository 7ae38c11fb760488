package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ellarises/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

const participantColumns = `participant_id, parent_id, first_name, last_name, email, dob, grade, school_or_employer, field_of_interest, graduation_status, created_at, updated_at`

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (parent_id, first_name, last_name, email, dob, grade, school_or_employer, field_of_interest, graduation_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING participant_id
	`
	return r.DB.QueryRowContext(ctx, query,
		p.ParentID, p.FirstName, p.LastName, p.Email, p.DOB, p.Grade, p.SchoolOrEmployer, p.FieldOfInterest, p.GraduationStatus, p.CreatedAt, p.UpdatedAt).
		Scan(&p.ID)
}

func (r *participantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE participant_id = $1
	`
	p := &domain.Participant{}
	var dob sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.ParentID, &p.FirstName, &p.LastName, &p.Email, &dob,
		&p.Grade, &p.SchoolOrEmployer, &p.FieldOfInterest, &p.GraduationStatus,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if dob.Valid {
		p.DOB = &dob.Time
	}
	return p, nil
}

func (r *participantRepository) ListByParentID(ctx context.Context, parentID int64) ([]*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE parent_id = $1
		ORDER BY participant_id
	`
	rows, err := r.DB.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.Participant
	for rows.Next() {
		p := &domain.Participant{}
		var dob sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.ParentID, &p.FirstName, &p.LastName, &p.Email, &dob,
			&p.Grade, &p.SchoolOrEmployer, &p.FieldOfInterest, &p.GraduationStatus,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if dob.Valid {
			p.DOB = &dob.Time
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *participantRepository) Update(ctx context.Context, p *domain.Participant) error {
	query := `
		UPDATE participants
		SET first_name = $2, last_name = $3, email = $4, dob = $5, grade = $6, school_or_employer = $7, field_of_interest = $8, graduation_status = $9, updated_at = $10
		WHERE participant_id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Email, p.DOB, p.Grade, p.SchoolOrEmployer, p.FieldOfInterest, p.GraduationStatus, p.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
