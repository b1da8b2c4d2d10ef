package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

const redisKeyPrefix = "fortune:result:"

// RedisStore implements Store on Redis so cache entries are shared across
// instances. All failures degrade to a miss; the pipeline regenerates.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, fingerprint string) (*types.FortuneResult, bool) {
	data, err := s.rdb.Get(ctx, redisKeyPrefix+fingerprint).Bytes()
	if err != nil {
		return nil, false
	}
	var result types.FortuneResult
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("discarding unreadable cache entry", "fingerprint", fingerprint, "error", err)
		return nil, false
	}
	return &result, true
}

func (s *RedisStore) Put(ctx context.Context, fingerprint string, result *types.FortuneResult, ttl time.Duration) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+fingerprint, data, ttl).Err(); err != nil {
		slog.Warn("cache store failed", "fingerprint", fingerprint, "error", err)
	}
}

var _ Store = (*RedisStore)(nil)
