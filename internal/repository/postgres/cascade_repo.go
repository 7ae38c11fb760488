package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ellarises/internal/domain"
)

type cascadeRepository struct {
	DB *sql.DB
}

func NewCascadeRepository(db *sql.DB) domain.CascadeRepository {
	return &cascadeRepository{
		DB: db,
	}
}

// DeleteEvent removes the event with its occurrences and everything hanging
// off them. Leaves first: surveys, registrations, occurrences, then the event
// row itself. One transaction, all or nothing.
func (r *cascadeRepository) DeleteEvent(ctx context.Context, eventID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	occIDs, err := collectIDs(ctx, tx, `SELECT occurrence_id FROM event_occurrences WHERE event_id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("collect occurrence ids: %w", err)
	}

	if len(occIDs) > 0 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM surveys
			WHERE registration_id IN (SELECT registration_id FROM registrations WHERE occurrence_id = ANY($1))
		`, pq.Array(occIDs)); err != nil {
			return fmt.Errorf("delete surveys: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE occurrence_id = ANY($1)`, pq.Array(occIDs)); err != nil {
			return fmt.Errorf("delete registrations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_occurrences WHERE event_id = $1`, eventID); err != nil {
			return fmt.Errorf("delete occurrences: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

// DeleteOccurrence removes one occurrence with its registrations and surveys.
func (r *cascadeRepository) DeleteOccurrence(ctx context.Context, occurrenceID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM surveys
		WHERE registration_id IN (SELECT registration_id FROM registrations WHERE occurrence_id = $1)
	`, occurrenceID); err != nil {
		return fmt.Errorf("delete surveys: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE occurrence_id = $1`, occurrenceID); err != nil {
		return fmt.Errorf("delete registrations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM event_occurrences WHERE occurrence_id = $1`, occurrenceID)
	if err != nil {
		return fmt.Errorf("delete occurrence: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

// DeleteParticipant removes one participant with their surveys, registrations,
// and milestones.
func (r *cascadeRepository) DeleteParticipant(ctx context.Context, participantID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := deleteParticipantLeaves(ctx, tx, []int64{participantID}); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE participant_id = $1`, participantID)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

// DeleteParentAccount removes every participant under the parent with their
// dependents, then the parent profile, then the login credential.
func (r *cascadeRepository) DeleteParentAccount(ctx context.Context, userID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parentID int64
	err = tx.QueryRowContext(ctx, `SELECT parent_id FROM parents WHERE user_id = $1`, userID).Scan(&parentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("find parent: %w", err)
	}

	participantIDs, err := collectIDs(ctx, tx, `SELECT participant_id FROM participants WHERE parent_id = $1`, parentID)
	if err != nil {
		return fmt.Errorf("collect participant ids: %w", err)
	}

	if len(participantIDs) > 0 {
		if err := deleteParticipantLeaves(ctx, tx, participantIDs); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE parent_id = $1`, parentID); err != nil {
			return fmt.Errorf("delete participants: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM parents WHERE parent_id = $1`, parentID); err != nil {
		return fmt.Errorf("delete parent: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM logins WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete login: %w", err)
	}

	return tx.Commit()
}

// deleteParticipantLeaves clears surveys, registrations, and milestones for
// the given participants, in that order.
func deleteParticipantLeaves(ctx context.Context, tx *sql.Tx, participantIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM surveys
		WHERE registration_id IN (SELECT registration_id FROM registrations WHERE participant_id = ANY($1))
	`, pq.Array(participantIDs)); err != nil {
		return fmt.Errorf("delete surveys: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE participant_id = ANY($1)`, pq.Array(participantIDs)); err != nil {
		return fmt.Errorf("delete registrations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM milestones WHERE participant_id = ANY($1)`, pq.Array(participantIDs)); err != nil {
		return fmt.Errorf("delete milestones: %w", err)
	}
	return nil
}

func collectIDs(ctx context.Context, tx *sql.Tx, query string, arg any) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
