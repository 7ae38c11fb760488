package domain

import (
	"context"
	"time"
)

// Parent represents a parent account profile, owned by one login.
// swagger:model Parent
type Parent struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Zip                string    `json:"zip"`
	LanguagePreference string    `json:"language_preference"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ParentRepository defines storage operations for parents.
type ParentRepository interface {
	Create(ctx context.Context, parent *Parent) error
	GetByID(ctx context.Context, id int64) (*Parent, error)
	GetByUserID(ctx context.Context, userID int64) (*Parent, error)
	Update(ctx context.Context, parent *Parent) error
}
