package model

import "time"

// Booking reserves a listing for a date range. CheckoutDate is exclusive.
type Booking struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	ListingID    uint      `json:"listing_id" gorm:"not null;index"`
	CheckinDate  time.Time `json:"checkin_date" gorm:"type:date;not null"`
	CheckoutDate time.Time `json:"checkout_date" gorm:"type:date;not null"`
	CreatedAt    time.Time `json:"created_at"`

	User    *Account `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Listing *Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

