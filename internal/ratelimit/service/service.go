// Package service wires the fixed-window store behind the configured
// per-client limit.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"nidegypt/internal/ratelimit/metrics"
	"nidegypt/internal/ratelimit/models"
	"nidegypt/internal/ratelimit/ports"
)

// WindowStore is re-exported so callers need not import ports directly.
type WindowStore = ports.WindowStore

// Service answers admit/deny for a caller key under one configured
// limit and window. Deny is a normal outcome, never an error; errors
// surface only for store failures.
type Service struct {
	store   WindowStore
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New validates the configured limit and window once, at startup.
// Malformed configuration is a construction-time error, not a
// per-request one.
func New(store WindowStore, limit int, window time.Duration, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("window store is required")
	}
	if limit <= 0 {
		return nil, errors.New("rate limit must be positive")
	}
	if window <= 0 {
		return nil, errors.New("rate limit window must be positive")
	}

	svc := &Service{
		store:  store,
		limit:  limit,
		window: window,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Check consumes one slot for the key and returns the decision.
func (s *Service) Check(ctx context.Context, key string) (models.Decision, error) {
	d, err := s.store.Check(ctx, models.SanitizeKeySegment(key), s.limit, s.window, s.clock())
	if err != nil {
		return models.Decision{}, err
	}

	if d.Admitted {
		if s.metrics != nil {
			s.metrics.RecordAdmitted()
		}
	} else {
		if s.metrics != nil {
			s.metrics.RecordDenied()
		}
		if s.logger != nil {
			s.logger.WarnContext(ctx, "rate limit exceeded",
				"key", key,
				"limit", s.limit,
				"window_seconds", int(s.window.Seconds()),
				"retry_after_seconds", int(d.RetryAfter.Seconds()),
			)
		}
	}
	return d, nil
}

// Reset clears the counter for a key.
func (s *Service) Reset(ctx context.Context, key string) error {
	return s.store.Reset(ctx, models.SanitizeKeySegment(key))
}

// Limit reports the configured per-window limit.
func (s *Service) Limit() int {
	return s.limit
}

// Window reports the configured window length.
func (s *Service) Window() time.Duration {
	return s.window
}
