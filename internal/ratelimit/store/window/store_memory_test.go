package window

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nidegypt/internal/ratelimit/models"
)

const (
	testLimit  = 10
	testWindow = time.Minute
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
	now   time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
}

func (s *MemoryStoreSuite) TestCheck() {
	s.Run("first request admitted", func() {
		d, err := s.store.Check(s.ctx, "client:first", testLimit, testWindow, s.now)
		s.Require().NoError(err)
		s.True(d.Admitted)
		s.Equal(testLimit, d.Limit)
		s.Equal(testLimit-1, d.Remaining)
	})

	s.Run("remaining strictly decreases to zero within window", func() {
		for i := range testLimit {
			d, err := s.store.Check(s.ctx, "client:limit", testLimit, testWindow, s.now.Add(time.Duration(i)*time.Second))
			s.Require().NoError(err)
			s.True(d.Admitted, "request %d", i+1)
			s.Equal(testLimit-1-i, d.Remaining, "request %d", i+1)
		}
	})

	s.Run("request over limit denied with positive retry-after", func() {
		for i := range testLimit {
			_, err := s.store.Check(s.ctx, "client:over", testLimit, testWindow, s.now.Add(time.Duration(i)*time.Second))
			s.Require().NoError(err)
		}
		d, err := s.store.Check(s.ctx, "client:over", testLimit, testWindow, s.now.Add(30*time.Second))
		s.Require().NoError(err)
		s.False(d.Admitted)
		s.Equal(0, d.Remaining)
		s.Equal(30*time.Second, d.RetryAfter)
	})

	s.Run("window elapse resets the counter", func() {
		for range testLimit + 3 {
			_, err := s.store.Check(s.ctx, "client:reset", testLimit, testWindow, s.now)
			s.Require().NoError(err)
		}
		d, err := s.store.Check(s.ctx, "client:reset", testLimit, testWindow, s.now.Add(testWindow))
		s.Require().NoError(err)
		s.True(d.Admitted)
		s.Equal(testLimit-1, d.Remaining)
	})

	s.Run("keys do not interfere", func() {
		for range testLimit {
			_, err := s.store.Check(s.ctx, "client:a", testLimit, testWindow, s.now)
			s.Require().NoError(err)
		}
		d, err := s.store.Check(s.ctx, "client:b", testLimit, testWindow, s.now)
		s.Require().NoError(err)
		s.True(d.Admitted)
		s.Equal(testLimit-1, d.Remaining)
	})
}

func (s *MemoryStoreSuite) TestReset() {
	for range testLimit {
		_, err := s.store.Check(s.ctx, "client:admin-reset", testLimit, testWindow, s.now)
		s.Require().NoError(err)
	}

	s.Require().NoError(s.store.Reset(s.ctx, "client:admin-reset"))

	d, err := s.store.Check(s.ctx, "client:admin-reset", testLimit, testWindow, s.now)
	s.Require().NoError(err)
	s.True(d.Admitted)
	s.Equal(testLimit-1, d.Remaining)
}

// Two racing requests for the same key must never both take the last slot.
func (s *MemoryStoreSuite) TestConcurrent() {
	limit := 100
	now := s.now
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for range 200 {
		wg.Go(func() {
			d, err := s.store.Check(s.ctx, "client:concurrent", limit, testWindow, now)
			s.Require().NoError(err)
			if d.Admitted {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		})
	}

	wg.Wait()
	s.Equal(limit, admitted)
}

// Different keys land on different shards and proceed independently.
func (s *MemoryStoreSuite) TestConcurrentDistinctKeys() {
	var wg sync.WaitGroup
	var mu sync.Mutex
	denied := 0

	for i := range 64 {
		key := models.SanitizeKeySegment(string(rune('a'+i%26))) + string(rune('0'+i%10))
		wg.Go(func() {
			for range 5 {
				d, err := s.store.Check(s.ctx, key, testLimit, testWindow, s.now)
				s.Require().NoError(err)
				if !d.Admitted {
					mu.Lock()
					denied++
					mu.Unlock()
				}
			}
		})
	}

	wg.Wait()
	s.Equal(0, denied)
}
