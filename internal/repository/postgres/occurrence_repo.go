package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ellarises/internal/domain"
)

type occurrenceRepository struct {
	DB *sql.DB
}

func NewOccurrenceRepository(db *sql.DB) domain.OccurrenceRepository {
	return &occurrenceRepository{
		DB: db,
	}
}

const occurrenceColumns = `occurrence_id, event_id, start_date, start_time, end_date, end_time, location, capacity, registration_deadline_date, registration_deadline_time, created_at`

func (r *occurrenceRepository) Create(ctx context.Context, o *domain.Occurrence) error {
	query := `
		INSERT INTO event_occurrences (event_id, start_date, start_time, end_date, end_time, location, capacity, registration_deadline_date, registration_deadline_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING occurrence_id
	`
	return r.DB.QueryRowContext(ctx, query,
		o.EventID, o.StartDate, o.StartTime, o.EndDate, o.EndTime, o.Location, o.Capacity, o.DeadlineDate, o.DeadlineTime, o.CreatedAt).
		Scan(&o.ID)
}

// CreateBatch inserts all occurrences in one multi-row statement and fills in
// the generated ids in input order.
func (r *occurrenceRepository) CreateBatch(ctx context.Context, occs []*domain.Occurrence) error {
	if len(occs) == 0 {
		return nil
	}
	const cols = 10
	valueClauses := make([]string, 0, len(occs))
	args := make([]any, 0, len(occs)*cols)
	for i, o := range occs {
		base := i * cols
		valueClauses = append(valueClauses, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		args = append(args, o.EventID, o.StartDate, o.StartTime, o.EndDate, o.EndTime, o.Location, o.Capacity, o.DeadlineDate, o.DeadlineTime, o.CreatedAt)
	}
	query := fmt.Sprintf(`
		INSERT INTO event_occurrences (event_id, start_date, start_time, end_date, end_time, location, capacity, registration_deadline_date, registration_deadline_time, created_at)
		VALUES %s
		RETURNING occurrence_id
	`, strings.Join(valueClauses, ", "))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	i := 0
	for rows.Next() {
		if i >= len(occs) {
			break
		}
		if err := rows.Scan(&occs[i].ID); err != nil {
			return err
		}
		i++
	}
	return rows.Err()
}

func (r *occurrenceRepository) GetByID(ctx context.Context, id int64) (*domain.Occurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM event_occurrences
		WHERE occurrence_id = $1
	`
	o := &domain.Occurrence{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.EventID, &o.StartDate, &o.StartTime, &o.EndDate, &o.EndTime,
		&o.Location, &o.Capacity, &o.DeadlineDate, &o.DeadlineTime, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *occurrenceRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Occurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM event_occurrences
		WHERE event_id = $1
		ORDER BY start_date, start_time
	`
	return r.queryOccurrences(ctx, query, eventID)
}

func (r *occurrenceRepository) ListOpen(ctx context.Context, asOf time.Time) ([]*domain.Occurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM event_occurrences
		WHERE registration_deadline_date >= $1
		ORDER BY start_date, start_time
	`
	return r.queryOccurrences(ctx, query, asOf)
}

func (r *occurrenceRepository) Update(ctx context.Context, o *domain.Occurrence) error {
	query := `
		UPDATE event_occurrences
		SET start_date = $2, start_time = $3, end_date = $4, end_time = $5, location = $6, capacity = $7, registration_deadline_date = $8, registration_deadline_time = $9
		WHERE occurrence_id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		o.ID, o.StartDate, o.StartTime, o.EndDate, o.EndTime, o.Location, o.Capacity, o.DeadlineDate, o.DeadlineTime)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *occurrenceRepository) queryOccurrences(ctx context.Context, query string, args ...any) ([]*domain.Occurrence, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var occs []*domain.Occurrence
	for rows.Next() {
		o := &domain.Occurrence{}
		if err := rows.Scan(
			&o.ID, &o.EventID, &o.StartDate, &o.StartTime, &o.EndDate, &o.EndTime,
			&o.Location, &o.Capacity, &o.DeadlineDate, &o.DeadlineTime, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		occs = append(occs, o)
	}
	return occs, rows.Err()
}
