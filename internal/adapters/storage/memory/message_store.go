package memory

import (
	"context"
	"sync"

	"github.com/saralabs/sara-agent/internal/domain"
)

type MessageStore struct {
	mu       sync.RWMutex
	messages map[domain.UserID][]*domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[domain.UserID][]*domain.Message),
	}
}

func (s *MessageStore) GetMessagesForUser(ctx context.Context, userID domain.UserID) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[userID]
	out := make([]*domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MessageStore) AppendMessages(ctx context.Context, userID domain.UserID, msgs []*domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[userID] = append(s.messages[userID], msgs...)
	return nil
}
