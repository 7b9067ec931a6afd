package artifact

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eightd/internal/cache/memory"
)

// MemoryStore keeps exports per session in an LRU cache with a sliding TTL,
// so files of abandoned sessions age out with them.
type MemoryStore struct {
	mu    sync.Mutex
	cache *memory.LRUTTL[string, map[string][]byte]
}

func NewMemoryStore(maxSessions int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: memory.NewLRUTTL[string, map[string][]byte](maxSessions, ttl)}
}

// WithClock replaces the time source. Intended for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.cache.WithClock(now)
	return s
}

func (s *MemoryStore) Put(_ context.Context, sessionID, name string, content []byte, _ string) error {
	key, err := objectKey(sessionID, name)
	if err != nil {
		return err
	}
	sessionID, name, _ = strings.Cut(key, "/")
	s.mu.Lock()
	defer s.mu.Unlock()
	files, _ := s.cache.Get(sessionID)
	next := make(map[string][]byte, len(files)+1)
	for k, v := range files {
		next[k] = v
	}
	next[name] = append([]byte(nil), content...)
	s.cache.Set(sessionID, next)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID, name string) ([]byte, error) {
	key, err := objectKey(sessionID, name)
	if err != nil {
		return nil, err
	}
	sessionID, name, _ = strings.Cut(key, "/")
	files, _ := s.cache.Get(sessionID)
	raw, ok := files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) List(_ context.Context, sessionID string) ([]string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	files, _ := s.cache.Get(sessionID)
	out := make([]string, 0, len(files))
	for name := range files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(sessionID)
	return nil
}

// GetURL has no link to offer; exports are served inline by the gateway.
func (s *MemoryStore) GetURL(context.Context, string, string) (string, error) {
	return "", nil
}
