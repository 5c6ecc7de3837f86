package store

import (
	"context"
	"sync"

	"checkout-service/models"
)

// MemoryStore is an in-process SessionStore, used when no redis is configured
// and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
	}
}

func (s *MemoryStore) Save(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	s.sessions[session.ID] = *session
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}
