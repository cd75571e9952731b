package repository

import (
	"context"

	"gorm.io/gorm"

	"sharebnb/internal/model"
)

// MessageRepository defines message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	ListSent(ctx context.Context, userID uint) ([]model.Message, error)
	ListReceived(ctx context.Context, userID uint) ([]model.Message, error)
	Thread(ctx context.Context, userID, otherID uint) ([]model.Message, error)
	Conversations(ctx context.Context, userID uint) ([]model.Conversation, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a message.
func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListSent returns messages sent by the user, newest first.
func (r *messageRepository) ListSent(ctx context.Context, userID uint) ([]model.Message, error) {
	return r.list(ctx, "from_user_id = ?", userID)
}

// ListReceived returns messages addressed to the user, newest first.
func (r *messageRepository) ListReceived(ctx context.Context, userID uint) ([]model.Message, error) {
	return r.list(ctx, "to_user_id = ?", userID)
}

func (r *messageRepository) list(ctx context.Context, where string, userID uint) ([]model.Message, error) {
	messages := []model.Message{}
	err := r.db.WithContext(ctx).
		Where(where, userID).
		Order("timestamp DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Thread returns every message exchanged between two users, oldest first.
func (r *messageRepository) Thread(ctx context.Context, userID, otherID uint) ([]model.Message, error) {
	messages := []model.Message{}
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID, otherID, otherID, userID).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// The counterpart of each message is whichever side is not the user; the
// latest message per counterpart is the one with the highest id.
const conversationsQuery = `
SELECT u.username AS username, m.text AS last_message, m.timestamp AS timestamp
FROM messages m
JOIN (
	SELECT CASE WHEN from_user_id = ? THEN to_user_id ELSE from_user_id END AS other_id,
		MAX(id) AS last_id
	FROM messages
	WHERE from_user_id = ? OR to_user_id = ?
	GROUP BY 1
) latest ON latest.last_id = m.id
JOIN users u ON u.id = latest.other_id
ORDER BY m.timestamp DESC, m.id DESC`

// Conversations returns one summary per counterpart, most recent first.
func (r *messageRepository) Conversations(ctx context.Context, userID uint) ([]model.Conversation, error) {
	conversations := []model.Conversation{}
	if err := r.db.WithContext(ctx).Raw(conversationsQuery, userID, userID, userID).Scan(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}
