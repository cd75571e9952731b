package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	CreateIfAvailable(ctx context.Context, booking *model.Booking) error
	ListByUser(ctx context.Context, userID uint) ([]model.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// CreateIfAvailable inserts booking unless it overlaps an existing booking of
// the same listing. The listing row is locked so concurrent requests for the
// same dates serialize; the loser gets ErrBookingOverlap.
func (r *bookingRepository) CreateIfAvailable(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing model.Listing
		if err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Where("id = ?", booking.ListingID).
			First(&listing).Error; err != nil {
			return err
		}

		var overlapping int64
		if err := tx.Model(&model.Booking{}).
			Where("listing_id = ? AND checkin_date < ? AND checkout_date > ?",
				booking.ListingID, booking.CheckoutDate, booking.CheckinDate).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return apperrors.ErrBookingOverlap
		}

		return tx.Create(booking).Error
	})
}

// ListByUser returns the user's bookings with their listings, latest checkin first.
func (r *bookingRepository) ListByUser(ctx context.Context, userID uint) ([]model.Booking, error) {
	bookings := []model.Booking{}
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("user_id = ?", userID).
		Order("checkin_date DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
