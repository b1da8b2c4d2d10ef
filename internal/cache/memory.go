package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

type memoryEntry struct {
	result    types.FortuneResult
	expiresAt time.Time
}

// MemoryStore implements Store with an in-process map and lazy expiry.
// Entries are copied on Put and Get so cached values are never mutated in
// place.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, fingerprint string) (*types.FortuneResult, bool) {
	s.mu.RLock()
	e, ok := s.entries[fingerprint]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a Put may have refreshed it.
		if cur, ok := s.entries[fingerprint]; ok && !s.now().Before(cur.expiresAt) {
			delete(s.entries, fingerprint)
		}
		s.mu.Unlock()
		return nil, false
	}
	result := e.result
	return &result, true
}

func (s *MemoryStore) Put(_ context.Context, fingerprint string, result *types.FortuneResult, ttl time.Duration) {
	if result == nil || ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[fingerprint] = memoryEntry{
		result:    *result,
		expiresAt: s.now().Add(ttl),
	}
	s.mu.Unlock()
}

// Len reports the number of stored entries, including not-yet-swept
// expired ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ Store = (*MemoryStore)(nil)
