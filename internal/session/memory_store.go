package session

import (
	"context"
	"strings"
	"time"

	"eightd/internal/cache/memory"
)

// MemoryStore keeps sessions in process. Idle sessions expire after ttl and
// the least recently used ones are dropped beyond maxEntries.
type MemoryStore struct {
	cache *memory.LRUTTL[string, *Session]
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: memory.NewLRUTTL[string, *Session](maxEntries, ttl)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s, ok := m.cache.Get(strings.TrimSpace(id))
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.cache.Set(s.ID, s.Clone())
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	if !m.cache.Delete(strings.TrimSpace(id)) {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int { return m.cache.Len() }
