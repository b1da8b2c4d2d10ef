package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

const redisKeyPrefix = "fortune:quota:"

// consumeScript atomically checks the counter against the limit and
// increments only when under it. The window starts at the first consumed
// request for the identity.
// KEYS[1] = counter key
// ARGV[1] = limit
// ARGV[2] = window in milliseconds
// Returns: [count, 1=allowed/0=denied, pttl_ms]
var consumeScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])

local current = tonumber(redis.call('GET', key) or '0')
if current >= limit then
    return {current, 0, redis.call('PTTL', key)}
end

current = redis.call('INCR', key)
if current == 1 then
    redis.call('PEXPIRE', key, window_ms)
end
return {current, 1, redis.call('PTTL', key)}
`)

// RedisStore implements Store on a shared Redis counter with atomic
// check-and-increment, suitable for multi-instance deployments.
type RedisStore struct {
	rdb    *redis.Client
	limits func() Limits
}

// NewRedisStore creates a Redis-backed quota store. Checks fail open on
// Redis errors so a store outage degrades to uncounted traffic rather than
// blocking all requests.
func NewRedisStore(rdb *redis.Client, limits func() Limits) *RedisStore {
	return &RedisStore{rdb: rdb, limits: limits}
}

func (s *RedisStore) key(identity string) string {
	return fmt.Sprintf("%s%s", redisKeyPrefix, identity)
}

func (s *RedisStore) Consume(ctx context.Context, identity string, tier types.Tier) (Result, error) {
	limits := s.limits()
	limit := limits.ForTier(tier)

	vals, err := consumeScript.Run(ctx, s.rdb, []string{s.key(identity)},
		limit, limits.Window.Milliseconds(),
	).Int64Slice()
	if err != nil || len(vals) != 3 {
		// Fail open
		return Result{
			Allowed: true,
			Status:  statusFor(tier, limit, 0, time.Now().Add(limits.Window)),
		}, nil
	}

	used := vals[0]
	allowed := vals[1] == 1
	resetAt := resetFromTTL(vals[2], limits.Window)

	return Result{
		Allowed: allowed,
		Status:  statusFor(tier, limit, used, resetAt),
	}, nil
}

func (s *RedisStore) Peek(ctx context.Context, identity string, tier types.Tier) (Status, error) {
	limits := s.limits()
	limit := limits.ForTier(tier)

	pipe := s.rdb.Pipeline()
	getCmd := pipe.Get(ctx, s.key(identity))
	ttlCmd := pipe.PTTL(ctx, s.key(identity))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return statusFor(tier, limit, 0, time.Now().Add(limits.Window)), nil
	}

	used, _ := getCmd.Int64()
	ttl, _ := ttlCmd.Result()
	return statusFor(tier, limit, used, resetFromTTL(ttl.Milliseconds(), limits.Window)), nil
}

// resetFromTTL converts a PTTL reply to a wall-clock reset time. A key with
// no expiry pending (-1/-2) resets a full window from now.
func resetFromTTL(ttlMs int64, window time.Duration) time.Time {
	if ttlMs <= 0 {
		return time.Now().Add(window)
	}
	return time.Now().Add(time.Duration(ttlMs) * time.Millisecond)
}

var _ Store = (*RedisStore)(nil)
