package event

import (
	"context"
	"sync"
)

// InMemoryStore keeps the default deployment dependency-free and testable. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Observation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Observation)}
}

func (s *InMemoryStore) Append(_ context.Context, obs Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[obs.SessionID] = append(s.events[obs.SessionID], obs)
	return nil
}

func (s *InMemoryStore) ListBySession(_ context.Context, sessionID string) ([]Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Observation{}, s.events[sessionID]...), nil
}

func (s *InMemoryStore) PurgeSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, sessionID)
	return nil
}
