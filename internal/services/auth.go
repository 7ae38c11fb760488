package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ellarises/internal/domain"
)

type authService struct {
	loginRepo domain.LoginRepository
	hasher    domain.PasswordHasher
	tokens    domain.TokenIssuer
}

// NewAuthService creates an AuthService with the given repository and adapters.
func NewAuthService(loginRepo domain.LoginRepository, hasher domain.PasswordHasher, tokens domain.TokenIssuer) domain.AuthService {
	return &authService{
		loginRepo: loginRepo,
		hasher:    hasher,
		tokens:    tokens,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.Login, error) {
	login, err := s.loginRepo.GetByUsername(ctx, strings.TrimSpace(strings.ToLower(username)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get login: %w", err)
	}
	if err := s.hasher.Compare(login.PasswordHash, login.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(login.UserID, login.Username, login.Role, tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, login, nil
}
