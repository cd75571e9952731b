package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sharebnb/internal/auth"
	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/model"
	"sharebnb/internal/repository"
)

// dummyPassword is hashed when the store is built so logins for unknown users
// still pay for exactly one bcrypt comparison.
const dummyPassword = "sharebnb-unknown-user"

// PasswordHasher hashes and verifies passwords. *auth.HashPool satisfies it.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}

// NewAccount carries the fields required to register an account.
type NewAccount struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CredentialStore owns account creation and password checks.
type CredentialStore interface {
	Create(ctx context.Context, input NewAccount) (*model.Account, error)
	Authenticate(ctx context.Context, username, password string) (*model.Account, error)
	Lookup(ctx context.Context, username string) (*model.Account, error)
}

type credentialStore struct {
	accounts repository.AccountRepository
	hasher   PasswordHasher
	dummy    string
}

// NewCredentialStore creates a credential store.
func NewCredentialStore(accounts repository.AccountRepository, hasher PasswordHasher) CredentialStore {
	s := &credentialStore{
		accounts: accounts,
		hasher:   hasher,
	}
	if digest, err := hasher.Hash(context.Background(), dummyPassword); err == nil {
		s.dummy = digest
	}
	return s
}

// Create hashes the password and persists a new account. It returns
// ErrDuplicateIdentity when the username or email is taken.
func (s *credentialStore) Create(ctx context.Context, input NewAccount) (*model.Account, error) {
	digest, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: digest,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// any unique index trips ErrDuplicatedKey, including the primary key
			taken, lookupErr := s.accounts.IdentityTaken(ctx, input.Username, input.Email)
			if lookupErr == nil && taken {
				return nil, apperrors.ErrDuplicateIdentity
			}
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// Authenticate returns the account matching username and password. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (s *credentialStore) Authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find account: %w", err)
		}
		s.compareDummy(ctx, password)
		return nil, apperrors.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	return account, nil
}

// Lookup re-resolves a token subject into its current account.
func (s *credentialStore) Lookup(ctx context.Context, username string) (*model.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

func (s *credentialStore) compareDummy(ctx context.Context, password string) {
	if s.dummy != "" {
		_, _ = s.hasher.Verify(ctx, password, s.dummy)
	}
}
