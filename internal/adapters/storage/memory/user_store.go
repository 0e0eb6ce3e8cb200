package memory

import (
	"context"
	"sync"

	"github.com/saralabs/sara-agent/internal/domain"
)

// UserStore is a simple in-memory implementation of domain.UserStore.
// It is NOT persistent and is only suitable for development / tests.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*domain.UserProfile // keyed by "{channel}:{channelUserId}"
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*domain.UserProfile),
	}
}

func channelKey(channel domain.Channel, channelUserID string) string {
	return string(channel) + ":" + channelUserID
}

func (s *UserStore) GetUserByChannelID(ctx context.Context, channel domain.Channel, channelUserID string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[channelKey(channel, channelUserID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *UserStore) UpsertUser(ctx context.Context, user *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *user
	s.users[channelKey(user.Channel, user.ChannelUserID)] = &cp
	return nil
}
