// Package quota enforces per-identity request ceilings over a rolling
// window, tiered by caller classification.
package quota

import (
	"context"
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// Status is the per-identity counter state reported to callers.
// used + remaining == limit at all times; remaining is never negative.
type Status struct {
	Tier      types.Tier `json:"tier"`
	Limit     int64      `json:"limit"`
	Used      int64      `json:"used"`
	Remaining int64      `json:"remaining"`
	ResetAt   time.Time  `json:"resetAt"`
}

// Result is the outcome of a consume attempt.
type Result struct {
	Allowed bool
	Status  Status
}

// Store tracks usage counters per identity. Consume must be atomic with
// respect to the check: two concurrent calls with one unit remaining must
// not both be allowed.
type Store interface {
	// Consume checks the identity's counter and, if under the tier limit,
	// records one unit of usage. A denied call mutates nothing.
	Consume(ctx context.Context, identity string, tier types.Tier) (Result, error)
	// Peek reports the current status without consuming.
	Peek(ctx context.Context, identity string, tier types.Tier) (Status, error)
}

// Limits holds the window length and per-tier ceilings.
type Limits struct {
	Window  time.Duration
	PerTier map[types.Tier]int64
}

// ForTier returns the ceiling for a tier, falling back to the public
// ceiling for unknown tiers.
func (l Limits) ForTier(t types.Tier) int64 {
	if n, ok := l.PerTier[t]; ok {
		return n
	}
	return l.PerTier[types.TierPublic]
}

// DefaultLimits returns the built-in quota configuration.
func DefaultLimits() Limits {
	return Limits{
		Window: time.Hour,
		PerTier: map[types.Tier]int64{
			types.TierPublic:        20,
			types.TierAuthenticated: 100,
			types.TierElevated:      500,
		},
	}
}

func statusFor(tier types.Tier, limit, used int64, resetAt time.Time) Status {
	if used > limit {
		used = limit
	}
	return Status{
		Tier:      tier,
		Limit:     limit,
		Used:      used,
		Remaining: limit - used,
		ResetAt:   resetAt,
	}
}
