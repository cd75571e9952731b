package handler_test

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/model"
)

// memDB backs the in-memory repositories used by the HTTP tests.
type memDB struct {
	mu       sync.Mutex
	seq      uint
	accounts []*model.Account
	listings []*model.Listing
	bookings []*model.Booking
	messages []*model.Message
}

func (m *memDB) nextID() uint {
	m.seq++
	return m.seq
}

func (m *memDB) accountByID(id uint) *model.Account {
	for _, a := range m.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *memDB) deleteAccount(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.accounts {
		if a.Username == username {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			return
		}
	}
}

type accountRepo struct{ db *memDB }

func (r accountRepo) Create(_ context.Context, account *model.Account) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.accounts {
		if a.Username == account.Username || a.Email == account.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	account.ID = r.db.nextID()
	account.CreatedAt = time.Now()
	stored := *account
	r.db.accounts = append(r.db.accounts, &stored)
	return nil
}

func (r accountRepo) FindByUsername(_ context.Context, username string) (*model.Account, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.accounts {
		if a.Username == username {
			found := *a
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r accountRepo) IdentityTaken(_ context.Context, username, email string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.accounts {
		if a.Username == username || a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r accountRepo) FindProfile(ctx context.Context, username string) (*model.Account, error) {
	account, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := len(r.db.listings) - 1; i >= 0; i-- {
		if r.db.listings[i].OwnerID == account.ID {
			account.Listings = append(account.Listings, *r.db.listings[i])
		}
	}
	return account, nil
}

type listingRepo struct{ db *memDB }

func (r listingRepo) Create(_ context.Context, listing *model.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	listing.ID = r.db.nextID()
	listing.CreatedAt = time.Now()
	stored := *listing
	r.db.listings = append(r.db.listings, &stored)
	return nil
}

func (r listingRepo) UpdatePhotos(_ context.Context, id uint, photos string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.listings {
		if l.ID == id {
			l.Photos = photos
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r listingRepo) Delete(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, l := range r.db.listings {
		if l.ID == id {
			r.db.listings = append(r.db.listings[:i], r.db.listings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r listingRepo) FindByID(_ context.Context, id uint) (*model.Listing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.listings {
		if l.ID == id {
			found := *l
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r listingRepo) List(_ context.Context, filter model.ListingFilter) ([]model.Listing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	result := []model.Listing{}
	for i := len(r.db.listings) - 1; i >= 0; i-- {
		l := r.db.listings[i]
		if filter.Query != "" && !strings.Contains(l.Details, filter.Query) {
			continue
		}
		if filter.MinPrice != nil && l.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && l.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		result = append(result, *l)
	}
	if filter.Offset >= len(result) {
		return []model.Listing{}, nil
	}
	result = result[filter.Offset:]
	if len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

type bookingRepo struct{ db *memDB }

func (r bookingRepo) CreateIfAvailable(_ context.Context, booking *model.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.bookings {
		if b.ListingID == booking.ListingID && b.CheckinDate.Before(booking.CheckoutDate) && b.CheckoutDate.After(booking.CheckinDate) {
			return apperrors.ErrBookingOverlap
		}
	}
	booking.ID = r.db.nextID()
	booking.CreatedAt = time.Now()
	stored := *booking
	r.db.bookings = append(r.db.bookings, &stored)
	return nil
}

func (r bookingRepo) ListByUser(_ context.Context, userID uint) ([]model.Booking, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	result := []model.Booking{}
	for _, b := range r.db.bookings {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

type messageRepo struct{ db *memDB }

func (r messageRepo) Create(_ context.Context, message *model.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	message.ID = r.db.nextID()
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC().Add(time.Duration(message.ID) * time.Millisecond)
	}
	stored := *message
	r.db.messages = append(r.db.messages, &stored)
	return nil
}

func (r messageRepo) ListSent(_ context.Context, userID uint) ([]model.Message, error) {
	return r.filter(func(m *model.Message) bool { return m.FromUserID == userID }), nil
}

func (r messageRepo) ListReceived(_ context.Context, userID uint) ([]model.Message, error) {
	return r.filter(func(m *model.Message) bool { return m.ToUserID == userID }), nil
}

func (r messageRepo) Thread(_ context.Context, userID, otherID uint) ([]model.Message, error) {
	return r.filter(func(m *model.Message) bool {
		return (m.FromUserID == userID && m.ToUserID == otherID) || (m.FromUserID == otherID && m.ToUserID == userID)
	}), nil
}

func (r messageRepo) Conversations(_ context.Context, userID uint) ([]model.Conversation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	latest := map[uint]*model.Message{}
	for _, m := range r.db.messages {
		var other uint
		switch userID {
		case m.FromUserID:
			other = m.ToUserID
		case m.ToUserID:
			other = m.FromUserID
		default:
			continue
		}
		if prev, ok := latest[other]; !ok || m.Timestamp.After(prev.Timestamp) {
			latest[other] = m
		}
	}
	result := []model.Conversation{}
	for other, m := range latest {
		if a := r.db.accountByID(other); a != nil {
			result = append(result, model.Conversation{Username: a.Username, LastMessage: m.Text, Timestamp: m.Timestamp})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.After(result[j].Timestamp) })
	return result, nil
}

func (r messageRepo) filter(keep func(*model.Message) bool) []model.Message {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	result := []model.Message{}
	for _, m := range r.db.messages {
		if keep(m) {
			result = append(result, *m)
		}
	}
	return result
}

type fakePhotos struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakePhotos) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return "https://photos.test/" + key, nil
}

func (f *fakePhotos) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
