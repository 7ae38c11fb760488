package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ellarises/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, event_type, description, recurrence_pattern, default_capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING event_id
	`
	return r.DB.QueryRowContext(ctx, query, e.Name, e.EventType, e.Description, string(e.RecurrencePattern), e.DefaultCapacity, e.CreatedAt, e.UpdatedAt).
		Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT event_id, name, event_type, description, recurrence_pattern, default_capacity, created_at, updated_at
		FROM events
		WHERE event_id = $1
	`
	e := &domain.Event{}
	var pattern string
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.Name, &e.EventType, &e.Description, &pattern, &e.DefaultCapacity, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.RecurrencePattern = domain.RecurrencePattern(pattern)
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT event_id, name, event_type, description, recurrence_pattern, default_capacity, created_at, updated_at
		FROM events
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e := &domain.Event{}
		var pattern string
		if err := rows.Scan(&e.ID, &e.Name, &e.EventType, &e.Description, &pattern, &e.DefaultCapacity, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.RecurrencePattern = domain.RecurrencePattern(pattern)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $2, event_type = $3, description = $4, recurrence_pattern = $5, default_capacity = $6, updated_at = $7
		WHERE event_id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, e.ID, e.Name, e.EventType, e.Description, string(e.RecurrencePattern), e.DefaultCapacity, e.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
