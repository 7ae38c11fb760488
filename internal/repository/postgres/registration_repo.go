package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ellarises/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Create inserts a registration. The unique constraint on (participant_id,
// occurrence_id) makes concurrent duplicates benign: if another request won
// the race, the existing row is loaded instead.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (participant_id, occurrence_id, status, attended, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (participant_id, occurrence_id) DO NOTHING
		RETURNING registration_id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.ParticipantID, reg.OccurrenceID, reg.Status, reg.Attended, reg.CreatedAt).
		Scan(&reg.ID)
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.GetByParticipantAndOccurrence(ctx, reg.ParticipantID, reg.OccurrenceID)
		if getErr != nil {
			return getErr
		}
		*reg = *existing
		return nil
	}
	return err
}

func (r *registrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	query := `
		SELECT registration_id, participant_id, occurrence_id, status, attended, checkin_at, created_at
		FROM registrations
		WHERE registration_id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetByParticipantAndOccurrence(ctx context.Context, participantID, occurrenceID int64) (*domain.Registration, error) {
	query := `
		SELECT registration_id, participant_id, occurrence_id, status, attended, checkin_at, created_at
		FROM registrations
		WHERE participant_id = $1 AND occurrence_id = $2
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, participantID, occurrenceID))
}

func (r *registrationRepository) ListByParticipantID(ctx context.Context, participantID int64) ([]*domain.RegistrationWithOccurrence, error) {
	query := `
		SELECT r.registration_id, r.participant_id, r.occurrence_id, r.status, r.attended, r.checkin_at, r.created_at,
		       o.occurrence_id, o.event_id, o.start_date, o.start_time, o.end_date, o.end_time, o.location, o.capacity, o.registration_deadline_date, o.registration_deadline_time, o.created_at,
		       e.name
		FROM registrations r
		INNER JOIN event_occurrences o ON o.occurrence_id = r.occurrence_id
		INNER JOIN events e ON e.event_id = o.event_id
		WHERE r.participant_id = $1
		ORDER BY o.start_date, o.start_time
	`
	rows, err := r.DB.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.RegistrationWithOccurrence
	for rows.Next() {
		reg := &domain.Registration{}
		occ := &domain.Occurrence{}
		var checkin sql.NullTime
		var eventName string
		if err := rows.Scan(
			&reg.ID, &reg.ParticipantID, &reg.OccurrenceID, &reg.Status, &reg.Attended, &checkin, &reg.CreatedAt,
			&occ.ID, &occ.EventID, &occ.StartDate, &occ.StartTime, &occ.EndDate, &occ.EndTime, &occ.Location, &occ.Capacity, &occ.DeadlineDate, &occ.DeadlineTime, &occ.CreatedAt,
			&eventName,
		); err != nil {
			return nil, err
		}
		if checkin.Valid {
			reg.CheckinAt = &checkin.Time
		}
		result = append(result, &domain.RegistrationWithOccurrence{
			Registration: reg,
			Occurrence:   occ,
			EventName:    eventName,
		})
	}
	return result, rows.Err()
}

func (r *registrationRepository) ListByOccurrenceID(ctx context.Context, occurrenceID int64) ([]*domain.Registration, error) {
	query := `
		SELECT registration_id, participant_id, occurrence_id, status, attended, checkin_at, created_at
		FROM registrations
		WHERE occurrence_id = $1
		ORDER BY registration_id
	`
	rows, err := r.DB.QueryContext(ctx, query, occurrenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg := &domain.Registration{}
		var checkin sql.NullTime
		if err := rows.Scan(&reg.ID, &reg.ParticipantID, &reg.OccurrenceID, &reg.Status, &reg.Attended, &checkin, &reg.CreatedAt); err != nil {
			return nil, err
		}
		if checkin.Valid {
			reg.CheckinAt = &checkin.Time
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, registrationID int64, status string) error {
	query := `UPDATE registrations SET status = $2 WHERE registration_id = $1`
	result, err := r.DB.ExecContext(ctx, query, registrationID, status)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) CheckIn(ctx context.Context, registrationID int64, at time.Time) error {
	query := `UPDATE registrations SET attended = TRUE, checkin_at = $2 WHERE registration_id = $1`
	result, err := r.DB.ExecContext(ctx, query, registrationID, at)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FanOutOccurrence seeds a default registration for every participant in one
// batched statement. Pairs that already exist are skipped, so re-running the
// fan-out for the same occurrence creates nothing.
func (r *registrationRepository) FanOutOccurrence(ctx context.Context, occurrenceID int64) (int64, error) {
	query := `
		INSERT INTO registrations (participant_id, occurrence_id, status, attended, created_at)
		SELECT p.participant_id, $1, $2, FALSE, NOW()
		FROM participants p
		ON CONFLICT (participant_id, occurrence_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, occurrenceID, domain.StatusNotAttending)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// FanOutParticipant seeds a default registration for every occurrence whose
// registration deadline is on or after asOf, in one batched statement.
func (r *registrationRepository) FanOutParticipant(ctx context.Context, participantID int64, asOf time.Time) (int64, error) {
	query := `
		INSERT INTO registrations (participant_id, occurrence_id, status, attended, created_at)
		SELECT $1, o.occurrence_id, $2, FALSE, NOW()
		FROM event_occurrences o
		WHERE o.registration_deadline_date >= $3
		ON CONFLICT (participant_id, occurrence_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, participantID, domain.StatusNotAttending, asOf)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *registrationRepository) scanOne(row *sql.Row) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var checkin sql.NullTime
	err := row.Scan(&reg.ID, &reg.ParticipantID, &reg.OccurrenceID, &reg.Status, &reg.Attended, &checkin, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if checkin.Valid {
		reg.CheckinAt = &checkin.Time
	}
	return reg, nil
}
