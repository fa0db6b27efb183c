// Package chat keeps the conversation history between a farmer and the assistant.
package chat

import (
	"context"
	"time"

	"github.com/farmwise/backend/internal/authz"
	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

// HistoryWindow is how many messages GetLatestConversation returns.
const HistoryWindow = 20

// Store is the chat persistence the service needs.
type Store interface {
	Create(ctx context.Context, m *models.ChatMessage) error
	Latest(ctx context.Context, userID int64, limit int) ([]models.ChatMessage, error)
	GetByID(ctx context.Context, id int64) (*models.ChatMessage, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// Service manages chat history.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a chat service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateChatMessage stores a message stamped with the current time.
func (s *Service) CreateChatMessage(ctx context.Context, text string, isBot bool, userID int64) (*models.ChatMessage, error) {
	m := &models.ChatMessage{Text: text, IsBot: isBot, UserID: userID, Timestamp: s.now().UTC()}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetLatestConversation returns the user's newest HistoryWindow messages in chronological order.
func (s *Service) GetLatestConversation(ctx context.Context, userID int64) ([]models.ChatMessage, error) {
	list, err := s.store.Latest(ctx, userID, HistoryWindow)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

// DeleteChatMessage deletes one message. Only its owner may delete it.
func (s *Service) DeleteChatMessage(ctx context.Context, id int64, actor authz.Actor) error {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Owns(m, actor.UserID) {
		return apperr.Forbidden("you can only delete your own messages")
	}
	return s.store.Delete(ctx, id)
}

// ClearChatHistory deletes every message of a user. Clearing an empty history succeeds.
func (s *Service) ClearChatHistory(ctx context.Context, userID int64) (int64, error) {
	return s.store.DeleteByUser(ctx, userID)
}
