package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/model"
	"sharebnb/internal/repository"
)

// AccountService handles account read operations.
type AccountService interface {
	Profile(ctx context.Context, username string) (*model.Profile, error)
	Bookings(ctx context.Context, account *model.Account) ([]model.Booking, error)
}

type accountService struct {
	accounts repository.AccountRepository
	bookings repository.BookingRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accounts repository.AccountRepository, bookings repository.BookingRepository) AccountService {
	return &accountService{
		accounts: accounts,
		bookings: bookings,
	}
}

// Profile returns the public profile of username.
func (s *accountService) Profile(ctx context.Context, username string) (*model.Profile, error) {
	account, err := s.accounts.FindProfile(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	profile := account.ToProfile()
	return &profile, nil
}

// Bookings lists the bookings made by account.
func (s *accountService) Bookings(ctx context.Context, account *model.Account) ([]model.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
