package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/logging"
	"sharebnb/internal/model"
	"sharebnb/internal/repository"
	"sharebnb/internal/storage"
)

const (
	listingCacheTTL     = 5 * time.Minute
	defaultListingLimit = 20
	maxListingLimit     = 100
)

// maxPrice is the first value that does not fit decimal(10,2).
var maxPrice = decimal.New(1, 8)

// Cache is the read-through cache used by services. *cache.Client satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PhotoUpload is an uploaded listing photo.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ListingService handles listing, booking and owner messaging operations.
type ListingService interface {
	Create(ctx context.Context, owner *model.Account, price decimal.Decimal, details string, photo *PhotoUpload) (*model.Listing, error)
	Get(ctx context.Context, id uint) (*model.Listing, error)
	List(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error)
	Book(ctx context.Context, user *model.Account, listingID uint, checkin, checkout time.Time) (*model.Booking, error)
	MessageOwner(ctx context.Context, user *model.Account, listingID uint, text string) (*model.Message, error)
}

type listingService struct {
	listings repository.ListingRepository
	bookings repository.BookingRepository
	messages repository.MessageRepository
	photos   storage.PhotoStore
	cache    Cache
	logger   logging.Logger
}

// NewListingService creates a new listing service.
func NewListingService(
	listings repository.ListingRepository,
	bookings repository.BookingRepository,
	messages repository.MessageRepository,
	photos storage.PhotoStore,
	cache Cache,
	logger logging.Logger,
) ListingService {
	return &listingService{
		listings: listings,
		bookings: bookings,
		messages: messages,
		photos:   photos,
		cache:    cache,
		logger:   logger,
	}
}

func (s *listingService) cacheKey(id uint) string {
	return fmt.Sprintf("listing:%d", id)
}

// Create stores a listing and uploads its optional photo. If the upload fails
// the listing is removed again.
func (s *listingService) Create(ctx context.Context, owner *model.Account, price decimal.Decimal, details string, photo *PhotoUpload) (*model.Listing, error) {
	if !price.IsPositive() || price.GreaterThanOrEqual(maxPrice) {
		return nil, apperrors.ErrInvalidPrice
	}

	listing := &model.Listing{
		OwnerID: owner.ID,
		Price:   price.Round(2),
		Details: details,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	if photo != nil {
		url, err := s.attachPhoto(ctx, listing.ID, photo)
		if err != nil {
			if delErr := s.listings.Delete(ctx, listing.ID); delErr != nil {
				s.logger.Error(ctx, "rollback listing", "listing_id", listing.ID, "error", delErr)
			}
			return nil, err
		}
		listing.Photos = url
	}

	s.logger.Info(ctx, "listing created", "listing_id", listing.ID, "owner_id", owner.ID)
	return listing, nil
}

func (s *listingService) attachPhoto(ctx context.Context, listingID uint, photo *PhotoUpload) (string, error) {
	key := storage.PhotoKey(listingID, photo.Filename)
	url, err := s.photos.Upload(ctx, key, photo.Body, photo.Size, photo.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	if err := s.listings.UpdatePhotos(ctx, listingID, url); err != nil {
		if rmErr := s.photos.Remove(ctx, key); rmErr != nil {
			s.logger.Error(ctx, "remove orphaned photo", "key", key, "error", rmErr)
		}
		return "", fmt.Errorf("save photo url: %w", err)
	}
	return url, nil
}

// Get retrieves a listing by ID with caching.
func (s *listingService) Get(ctx context.Context, id uint) (*model.Listing, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Listing
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(listing); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, listingCacheTTL)
	}
	return listing, nil
}

func (s *listingService) find(ctx context.Context, id uint) (*model.Listing, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return listing, nil
}

// List returns a page of listings. Limit defaults to 20 and is capped at 100.
func (s *listingService) List(ctx context.Context, filter model.ListingFilter) ([]model.Listing, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListingLimit
	}
	if filter.Limit > maxListingLimit {
		filter.Limit = maxListingLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	listings, err := s.listings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

// Book reserves listingID for [checkin, checkout).
func (s *listingService) Book(ctx context.Context, user *model.Account, listingID uint, checkin, checkout time.Time) (*model.Booking, error) {
	if !checkout.After(checkin) {
		return nil, apperrors.ErrInvalidDates
	}

	listing, err := s.find(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID == user.ID {
		return nil, apperrors.ErrSelfBooking
	}

	booking := &model.Booking{
		UserID:       user.ID,
		ListingID:    listing.ID,
		CheckinDate:  checkin,
		CheckoutDate: checkout,
	}
	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBookingOverlap):
			return nil, err
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.ErrListingNotFound
		default:
			return nil, fmt.Errorf("create booking: %w", err)
		}
	}

	s.logger.Info(ctx, "listing booked", "listing_id", listing.ID, "booking_id", booking.ID, "user_id", user.ID)
	return booking, nil
}

// MessageOwner sends text from user to the owner of listingID.
func (s *listingService) MessageOwner(ctx context.Context, user *model.Account, listingID uint, text string) (*model.Message, error) {
	listing, err := s.find(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID == user.ID {
		return nil, apperrors.ErrSelfMessage
	}

	message := &model.Message{
		FromUserID: user.ID,
		ToUserID:   listing.OwnerID,
		Text:       text,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}
