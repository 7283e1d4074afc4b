package window

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"nidegypt/internal/ratelimit/models"
)

// shardCount spreads keys over independent locks so unrelated clients
// never contend. Power of two for cheap masking.
const shardCount = 32

type shard struct {
	mu      sync.Mutex
	windows map[string]models.WindowState
}

// MemoryStore keeps fixed-window counters in process memory behind
// per-shard locks. Single-instance deployments only; use RedisStore when
// state must be shared.
type MemoryStore struct {
	shards [shardCount]*shard
}

// NewMemoryStore creates an in-memory fixed-window store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i] = &shard{windows: make(map[string]models.WindowState)}
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()&(shardCount-1)]
}

// Check applies one request to the key's window. The transition itself is
// the pure models.Advance; the shard lock makes it atomic per key.
func (s *MemoryStore) Check(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (models.Decision, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, d := models.Advance(sh.windows[key], now, limit, window)
	sh.windows[key] = st
	return d, nil
}

// Reset clears the counter for a key.
func (s *MemoryStore) Reset(ctx context.Context, key string) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.windows, key)
	return nil
}
