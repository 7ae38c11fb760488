package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"ellarises/internal/domain"
)

type loginRepository struct {
	DB *sql.DB
}

func NewLoginRepository(db *sql.DB) domain.LoginRepository {
	return &loginRepository{
		DB: db,
	}
}

func (r *loginRepository) Create(ctx context.Context, login *domain.Login) error {
	query := `
		INSERT INTO logins (username, password_hash, salt, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id
	`
	err := r.DB.QueryRowContext(ctx, query, login.Username, login.PasswordHash, login.Salt, login.Role, login.CreatedAt).
		Scan(&login.UserID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return domain.ErrDuplicateUsername
	}
	return err
}

func (r *loginRepository) GetByUsername(ctx context.Context, username string) (*domain.Login, error) {
	query := `
		SELECT user_id, username, password_hash, salt, role, created_at
		FROM logins
		WHERE username = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, username))
}

func (r *loginRepository) GetByID(ctx context.Context, userID int64) (*domain.Login, error) {
	query := `
		SELECT user_id, username, password_hash, salt, role, created_at
		FROM logins
		WHERE user_id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *loginRepository) scanOne(row *sql.Row) (*domain.Login, error) {
	login := &domain.Login{}
	err := row.Scan(&login.UserID, &login.Username, &login.PasswordHash, &login.Salt, &login.Role, &login.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return login, nil
}
