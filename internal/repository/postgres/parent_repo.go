package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ellarises/internal/domain"
)

type parentRepository struct {
	DB *sql.DB
}

func NewParentRepository(db *sql.DB) domain.ParentRepository {
	return &parentRepository{
		DB: db,
	}
}

const parentColumns = `parent_id, user_id, first_name, last_name, email, phone, city, state, zip, language_preference, created_at, updated_at`

func (r *parentRepository) Create(ctx context.Context, parent *domain.Parent) error {
	query := `
		INSERT INTO parents (user_id, first_name, last_name, email, phone, city, state, zip, language_preference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING parent_id
	`
	return r.DB.QueryRowContext(ctx, query,
		parent.UserID, parent.FirstName, parent.LastName, parent.Email, parent.Phone,
		parent.City, parent.State, parent.Zip, parent.LanguagePreference, parent.CreatedAt, parent.UpdatedAt).
		Scan(&parent.ID)
}

func (r *parentRepository) GetByID(ctx context.Context, id int64) (*domain.Parent, error) {
	query := `
		SELECT ` + parentColumns + `
		FROM parents
		WHERE parent_id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *parentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Parent, error) {
	query := `
		SELECT ` + parentColumns + `
		FROM parents
		WHERE user_id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *parentRepository) Update(ctx context.Context, parent *domain.Parent) error {
	query := `
		UPDATE parents
		SET first_name = $2, last_name = $3, email = $4, phone = $5, city = $6, state = $7, zip = $8, language_preference = $9, updated_at = $10
		WHERE parent_id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		parent.ID, parent.FirstName, parent.LastName, parent.Email, parent.Phone,
		parent.City, parent.State, parent.Zip, parent.LanguagePreference, parent.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *parentRepository) scanOne(row *sql.Row) (*domain.Parent, error) {
	parent := &domain.Parent{}
	err := row.Scan(
		&parent.ID, &parent.UserID, &parent.FirstName, &parent.LastName, &parent.Email,
		&parent.Phone, &parent.City, &parent.State, &parent.Zip, &parent.LanguagePreference,
		&parent.CreatedAt, &parent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return parent, nil
}
