package repository

import (
	"context"

	"gorm.io/gorm"

	"sharebnb/internal/model"
)

// AccountRepository defines account persistence operations.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
	FindProfile(ctx context.Context, username string) (*model.Account, error)
	IdentityTaken(ctx context.Context, username, email string) (bool, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts a new account. A taken username or email surfaces as gorm.ErrDuplicatedKey.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// FindByUsername finds an account by exact username.
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		return nil, err
	}
	// MySQL's default collation compares case-insensitively; usernames do not.
	if account.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return &account, nil
}

// FindProfile finds an account with its listings, newest first.
func (r *accountRepository) FindProfile(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Preload("Listings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Where("username = ?", username).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	if account.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return &account, nil
}

// IdentityTaken reports whether username or email already belongs to an account.
func (r *accountRepository) IdentityTaken(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
