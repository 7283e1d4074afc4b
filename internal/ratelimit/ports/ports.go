// Package ports declares the interfaces the rate limit service depends on.
package ports

import (
	"context"
	"time"

	"nidegypt/internal/ratelimit/models"
)

// WindowStore applies one request against a key's fixed window and
// returns the admit/deny decision. Implementations must make the
// read-modify-write atomic per key: two racing requests must never both
// take the last slot.
type WindowStore interface {
	Check(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (models.Decision, error)
	Reset(ctx context.Context, key string) error
}
