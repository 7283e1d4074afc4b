// Package middleware applies the rate limiter at the HTTP boundary.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	platformmw "nidegypt/internal/platform/middleware"
	"nidegypt/internal/ratelimit/models"
)

// Limiter is the decision interface the middleware needs.
type Limiter interface {
	Check(ctx context.Context, key string) (models.Decision, error)
}

// Middleware keys requests by the authenticated service client, falling
// back to the remote address for unauthenticated routes.
type Middleware struct {
	limiter  Limiter
	logger   *slog.Logger
	disabled bool
}

// Option configures the middleware.
type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(limiter Limiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit admits or denies the request before the handler runs.
// X-RateLimit headers are added on every response, denied or not. A
// limiter failure fails open: availability over strictness for a
// decoding service.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := platformmw.GetClientID(ctx)
		if key == "" {
			key = r.RemoteAddr
		}

		d, err := m.limiter.Check(ctx, key)
		if err != nil {
			m.logger.ErrorContext(ctx, "rate limit check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, d)

		if !d.Admitted {
			writeRateLimitExceeded(w, d)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, d models.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, d models.Decision) {
	retryAfter := int(d.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Too many requests. Please try again later.",
		"retry_after": retryAfter,
	})
}
