package order

import (
	"context"
	"sync"

	"letwise/internal/orders/models"
	"letwise/pkg/platform/sentinel"
)

// InMemoryStore keeps orders in a map keyed by checkout session.
type InMemoryStore struct {
	mu        sync.RWMutex
	bySession map[string]models.Order
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{bySession: make(map[string]models.Order)}
}

// Save inserts or replaces the order for its session.
func (s *InMemoryStore) Save(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bySession[o.SessionID] = *o
	return nil
}

func (s *InMemoryStore) FindBySessionID(_ context.Context, sessionID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.bySession[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &o, nil
}
