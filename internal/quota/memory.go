package quota

import (
	"context"
	"sync"
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// sweepThreshold triggers an expired-entry sweep once the counter map
// grows past it.
const sweepThreshold = 4096

type memoryEntry struct {
	used    int64
	resetAt time.Time
}

// MemoryStore implements Store with a mutex-guarded in-process map.
// Suitable for single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	limits  func() Limits
	now     func() time.Time
}

func NewMemoryStore(limits func() Limits) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		limits:  limits,
		now:     time.Now,
	}
}

func (s *MemoryStore) Consume(_ context.Context, identity string, tier types.Tier) (Result, error) {
	limits := s.limits()
	limit := limits.ForTier(tier)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[identity]
	if e == nil || !now.Before(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(limits.Window)}
		s.entries[identity] = e
		s.maybeSweep(now)
	}

	if e.used >= limit {
		return Result{Allowed: false, Status: statusFor(tier, limit, e.used, e.resetAt)}, nil
	}

	e.used++
	return Result{Allowed: true, Status: statusFor(tier, limit, e.used, e.resetAt)}, nil
}

func (s *MemoryStore) Peek(_ context.Context, identity string, tier types.Tier) (Status, error) {
	limits := s.limits()
	limit := limits.ForTier(tier)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[identity]
	if e == nil || !now.Before(e.resetAt) {
		return statusFor(tier, limit, 0, now.Add(limits.Window)), nil
	}
	return statusFor(tier, limit, e.used, e.resetAt), nil
}

// maybeSweep drops expired entries so the map stays bounded by active
// identities. Must be called with mu held.
func (s *MemoryStore) maybeSweep(now time.Time) {
	if len(s.entries) < sweepThreshold {
		return
	}
	for id, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, id)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
