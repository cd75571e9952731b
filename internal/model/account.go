package model

import (
	"time"
)

// Account is a registered marketplace user.
type Account struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	FirstName    string    `json:"first_name" gorm:"size:255;not null"`
	LastName     string    `json:"last_name" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the users table name used by existing databases.
func (Account) TableName() string {
	return "users"
}

// Profile is the public view of an account.
type Profile struct {
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Listings  []Listing `json:"listings"`
}

// ToProfile strips private fields from an account.
func (a *Account) ToProfile() Profile {
	listings := a.Listings
	if listings == nil {
		listings = []Listing{}
	}
	return Profile{
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Listings:  listings,
	}
}
