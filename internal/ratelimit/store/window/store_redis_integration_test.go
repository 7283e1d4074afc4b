//go:build integration

package window_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nidegypt/internal/ratelimit/store/window"
	"nidegypt/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *window.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = window.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestCheck_AdmitsUpToLimit() {
	ctx := context.Background()
	now := time.Now()

	for i := range 5 {
		d, err := s.store.Check(ctx, "client:redis", 5, time.Minute, now)
		s.Require().NoError(err)
		s.True(d.Admitted, "request %d", i+1)
		s.Equal(4-i, d.Remaining, "request %d", i+1)
	}

	d, err := s.store.Check(ctx, "client:redis", 5, time.Minute, now)
	s.Require().NoError(err)
	s.False(d.Admitted)
	s.Equal(0, d.Remaining)
	s.Positive(d.RetryAfter)
}

func (s *RedisStoreSuite) TestCheck_WindowExpiryResets() {
	ctx := context.Background()
	now := time.Now()

	for range 3 {
		_, err := s.store.Check(ctx, "client:expiry", 2, time.Second, now)
		s.Require().NoError(err)
	}

	time.Sleep(1100 * time.Millisecond)

	d, err := s.store.Check(ctx, "client:expiry", 2, time.Second, time.Now())
	s.Require().NoError(err)
	s.True(d.Admitted)
	s.Equal(1, d.Remaining)
}

func (s *RedisStoreSuite) TestReset() {
	ctx := context.Background()
	now := time.Now()

	for range 2 {
		_, err := s.store.Check(ctx, "client:reset", 2, time.Minute, now)
		s.Require().NoError(err)
	}

	s.Require().NoError(s.store.Reset(ctx, "client:reset"))

	d, err := s.store.Check(ctx, "client:reset", 2, time.Minute, now)
	s.Require().NoError(err)
	s.True(d.Admitted)
	s.Equal(1, d.Remaining)
}
