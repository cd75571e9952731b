package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sharebnb/internal/model"
)

// newTestDB opens a private in-memory database migrated with every model.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// each connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Account{}, &model.Listing{}, &model.Booking{}, &model.Message{}))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, username string) *model.Account {
	t.Helper()
	account := &model.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "digest",
		FirstName:    "First",
		LastName:     "Last",
	}
	require.NoError(t, NewAccountRepository(db).Create(context.Background(), account))
	return account
}

func seedListing(t *testing.T, db *gorm.DB, ownerID uint, price, details string, createdAt time.Time) *model.Listing {
	t.Helper()
	listing := &model.Listing{
		OwnerID:   ownerID,
		Price:     decimal.RequireFromString(price),
		Details:   details,
		CreatedAt: createdAt,
	}
	require.NoError(t, NewListingRepository(db).Create(context.Background(), listing))
	return listing
}

func day(d int) time.Time {
	return time.Date(2026, time.July, d, 0, 0, 0, 0, time.UTC)
}
