package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a space offered for booking by its owner.
type Listing struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OwnerID   uint            `json:"user_id" gorm:"column:user_id;not null;index"`
	Photos    string          `json:"photos" gorm:"type:text"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Details   string          `json:"details" gorm:"type:text;not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ListingFilter narrows a listing index query.
type ListingFilter struct {
	Query    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}
