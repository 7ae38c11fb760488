package domain

import (
	"context"
	"time"
)

// Account levels stored on the login row and carried in the token.
const (
	RoleManager = "manager"
	RoleParent  = "parent"
)

// Identity is the authenticated caller, extracted from the bearer token by
// the auth middleware and passed explicitly into every service call.
type Identity struct {
	UserID int64
	Role   string
}

// IsManager reports whether the caller has manager-level access.
func (i Identity) IsManager() bool {
	return i.Role == RoleManager
}

// Login represents a login credential row.
// swagger:model Login
type Login struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, username, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// LoginRepository defines storage operations for login credentials.
type LoginRepository interface {
	Create(ctx context.Context, login *Login) error
	GetByUsername(ctx context.Context, username string) (*Login, error)
	GetByID(ctx context.Context, userID int64) (*Login, error)
}

// AuthService authenticates users and issues tokens.
type AuthService interface {
	// Login verifies credentials and returns a signed token plus the login row.
	Login(ctx context.Context, username, password string) (string, *Login, error)
}
