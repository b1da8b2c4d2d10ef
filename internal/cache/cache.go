// Package cache stores generated fortunes keyed by request fingerprint.
// A hit makes the response free: cached requests never consume quota or
// touch the AI provider.
package cache

import (
	"context"
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// Store is a TTL key-value cache for fortune results. Get treats expired
// or missing entries as absent; Put overwrites wholesale.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*types.FortuneResult, bool)
	Put(ctx context.Context, fingerprint string, result *types.FortuneResult, ttl time.Duration)
}
