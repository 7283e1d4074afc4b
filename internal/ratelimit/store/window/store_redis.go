package window

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nidegypt/internal/ratelimit/models"
)

// windowKeyPrefix namespaces rate limit keys in Redis.
const windowKeyPrefix = "rl:window:"

// RedisStore is a Redis-backed fixed-window store for multi-instance
// deployments. INCR gives the atomic read-modify-write; the key's TTL is
// the window boundary, set only when the window opens so it never slides.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed fixed-window store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Check applies one request to the key's window.
func (s *RedisStore) Check(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (models.Decision, error) {
	rkey := windowKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, rkey)
	// NX: only the request that opens the window sets the expiry.
	pipe.ExpireNX(ctx, rkey, window)
	ttl := pipe.TTL(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.Decision{}, fmt.Errorf("redis window check: %w", err)
	}

	count := int(incr.Val())
	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	resetAt := now.Add(remaining)

	d := models.Decision{
		Admitted:  count <= limit,
		Limit:     limit,
		Remaining: max(0, limit-count),
		ResetAt:   resetAt,
	}
	if !d.Admitted {
		d.RetryAfter = remaining
	}
	return d, nil
}

// Reset clears the counter for a key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, windowKeyPrefix+key).Err()
}
