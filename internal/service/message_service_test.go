package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/model"
)

func TestMessageService_Inbox(t *testing.T) {
	repo := new(MockMessageRepository)
	repo.On("ListSent", mock.Anything, guest.ID).Return([]model.Message{{ID: 1, FromUserID: guest.ID}}, nil)
	repo.On("ListReceived", mock.Anything, guest.ID).Return([]model.Message{}, nil)

	inbox, err := NewMessageService(repo, new(MockCredentialStore)).Inbox(context.Background(), guest)
	require.NoError(t, err)
	assert.Len(t, inbox.Sent, 1)
	assert.Empty(t, inbox.Received)
	repo.AssertExpectations(t)
}

func TestMessageService_Conversations(t *testing.T) {
	repo := new(MockMessageRepository)
	now := time.Now().UTC()
	repo.On("Conversations", mock.Anything, guest.ID).Return([]model.Conversation{
		{Username: "owner", LastMessage: "see you", Timestamp: now},
	}, nil)

	conversations, err := NewMessageService(repo, new(MockCredentialStore)).Conversations(context.Background(), guest)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "owner", conversations[0].Username)
	repo.AssertExpectations(t)
}

func TestMessageService_Thread(t *testing.T) {
	t.Run("known counterpart", func(t *testing.T) {
		repo := new(MockMessageRepository)
		store := new(MockCredentialStore)
		store.On("Lookup", mock.Anything, "owner").Return(owner, nil)
		repo.On("Thread", mock.Anything, guest.ID, owner.ID).Return([]model.Message{{ID: 1}, {ID: 2}}, nil)

		thread, err := NewMessageService(repo, store).Thread(context.Background(), guest, "owner")
		require.NoError(t, err)
		assert.Len(t, thread, 2)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("unknown counterpart", func(t *testing.T) {
		store := new(MockCredentialStore)
		store.On("Lookup", mock.Anything, "ghost").Return(nil, apperrors.ErrAccountNotFound)

		_, err := NewMessageService(new(MockMessageRepository), store).Thread(context.Background(), guest, "ghost")
		assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
	})
}

func TestMessageService_Send(t *testing.T) {
	tests := []struct {
		name          string
		to            string
		setupMock     func(*MockMessageRepository, *MockCredentialStore)
		expectedError error
	}{
		{
			name: "delivers",
			to:   "owner",
			setupMock: func(r *MockMessageRepository, s *MockCredentialStore) {
				s.On("Lookup", mock.Anything, "owner").Return(owner, nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.Message")).Return(nil)
			},
		},
		{
			name: "to self",
			to:   "guest",
			setupMock: func(r *MockMessageRepository, s *MockCredentialStore) {
				s.On("Lookup", mock.Anything, "guest").Return(guest, nil)
			},
			expectedError: apperrors.ErrSelfMessage,
		},
		{
			name: "unknown recipient",
			to:   "ghost",
			setupMock: func(r *MockMessageRepository, s *MockCredentialStore) {
				s.On("Lookup", mock.Anything, "ghost").Return(nil, apperrors.ErrAccountNotFound)
			},
			expectedError: apperrors.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMessageRepository)
			store := new(MockCredentialStore)
			tt.setupMock(repo, store)

			msg, err := NewMessageService(repo, store).Send(context.Background(), guest, tt.to, "hello")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, msg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, guest.ID, msg.FromUserID)
				assert.Equal(t, owner.ID, msg.ToUserID)
			}
			repo.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}
