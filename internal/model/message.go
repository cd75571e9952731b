package model

import (
	"time"

	"gorm.io/gorm"
)

// MaxMessageLength is the column width of a message body.
const MaxMessageLength = 140

// Message is a direct message between two accounts.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ToUserID   uint      `json:"to_user_id" gorm:"not null;index"`
	FromUserID uint      `json:"from_user_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"size:140;not null"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`

	ToUser   *Account `json:"-" gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE"`
	FromUser *Account `json:"-" gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate stamps the message in UTC when no timestamp is set.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}

// Conversation summarizes the latest exchange with one counterpart.
type Conversation struct {
	Username    string    `json:"username"`
	LastMessage string    `json:"last_message"`
	Timestamp   time.Time `json:"timestamp"`
}
