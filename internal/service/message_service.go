package service

import (
	"context"
	"fmt"

	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/model"
	"sharebnb/internal/repository"
)

// Inbox holds a user's sent and received messages.
type Inbox struct {
	Sent     []model.Message `json:"sent"`
	Received []model.Message `json:"received"`
}

// MessageService handles direct messaging between users.
type MessageService interface {
	Inbox(ctx context.Context, user *model.Account) (*Inbox, error)
	Conversations(ctx context.Context, user *model.Account) ([]model.Conversation, error)
	Thread(ctx context.Context, user *model.Account, otherUsername string) ([]model.Message, error)
	Send(ctx context.Context, user *model.Account, otherUsername, text string) (*model.Message, error)
}

type messageService struct {
	messages    repository.MessageRepository
	credentials CredentialStore
}

// NewMessageService creates a new message service. Counterparts are resolved
// through the credential store.
func NewMessageService(messages repository.MessageRepository, credentials CredentialStore) MessageService {
	return &messageService{
		messages:    messages,
		credentials: credentials,
	}
}

func (s *messageService) Inbox(ctx context.Context, user *model.Account) (*Inbox, error) {
	sent, err := s.messages.ListSent(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list sent: %w", err)
	}
	received, err := s.messages.ListReceived(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list received: %w", err)
	}
	return &Inbox{Sent: sent, Received: received}, nil
}

func (s *messageService) Conversations(ctx context.Context, user *model.Account) ([]model.Conversation, error) {
	conversations, err := s.messages.Conversations(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

func (s *messageService) Thread(ctx context.Context, user *model.Account, otherUsername string) ([]model.Message, error) {
	other, err := s.credentials.Lookup(ctx, otherUsername)
	if err != nil {
		return nil, err
	}
	thread, err := s.messages.Thread(ctx, user.ID, other.ID)
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	return thread, nil
}

func (s *messageService) Send(ctx context.Context, user *model.Account, otherUsername, text string) (*model.Message, error) {
	other, err := s.credentials.Lookup(ctx, otherUsername)
	if err != nil {
		return nil, err
	}
	if other.ID == user.ID {
		return nil, apperrors.ErrSelfMessage
	}

	message := &model.Message{
		FromUserID: user.ID,
		ToUserID:   other.ID,
		Text:       text,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}
