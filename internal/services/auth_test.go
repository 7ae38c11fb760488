package services

import (
	"context"
	"errors"
	"testing"

	"ellarises/internal/domain"
)

func TestLogin_Success(t *testing.T) {
	loginRepo := &mockLoginRepository{
		logins: map[string]*domain.Login{
			"ana.torres": {UserID: 1, Username: "ana.torres", PasswordHash: "salt:hunter22", Salt: "salt", Role: domain.RoleParent},
		},
	}
	svc := NewAuthService(loginRepo, mockHasher{}, mockTokenIssuer{})

	token, login, err := svc.Login(context.Background(), "  Ana.Torres ", "hunter22")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if login.UserID != 1 {
		t.Errorf("expected user 1, got %d", login.UserID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	loginRepo := &mockLoginRepository{
		logins: map[string]*domain.Login{
			"ana.torres": {UserID: 1, Username: "ana.torres", PasswordHash: "salt:hunter22", Salt: "salt", Role: domain.RoleParent},
		},
	}
	svc := NewAuthService(loginRepo, mockHasher{}, mockTokenIssuer{})

	_, _, err := svc.Login(context.Background(), "ana.torres", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockLoginRepository{}, mockHasher{}, mockTokenIssuer{})

	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
