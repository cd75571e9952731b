package service

import (
	"context"
	"fmt"
)

// TokenIssuer signs identity tokens. *auth.JWTService satisfies it.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthService handles signup and login.
type AuthService interface {
	Signup(ctx context.Context, input NewAccount) (token string, err error)
	Login(ctx context.Context, username, password string) (token string, err error)
}

type authService struct {
	credentials CredentialStore
	tokens      TokenIssuer
}

// NewAuthService creates a new authentication service.
func NewAuthService(credentials CredentialStore, tokens TokenIssuer) AuthService {
	return &authService{
		credentials: credentials,
		tokens:      tokens,
	}
}

// Signup registers an account and returns a token for it.
func (s *authService) Signup(ctx context.Context, input NewAccount) (string, error) {
	account, err := s.credentials.Create(ctx, input)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Login checks credentials and returns a token. Failures are ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.credentials.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
