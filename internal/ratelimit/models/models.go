// Package models holds the rate limiter's domain types and the pure
// fixed-window transition function.
package models

import (
	"strings"
	"time"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Admitted   bool          `json:"admitted"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetAt    time.Time     `json:"reset_at"`
	RetryAfter time.Duration `json:"retry_after,omitempty"` // only set when denied
}

// WindowState is the per-key counter state. Exactly one live window per
// key at any instant; Start is monotonically non-decreasing.
type WindowState struct {
	Start time.Time
	Count int
}

// Advance applies one request to a window state, fixed-window style: the
// counter resets at window boundaries rather than sliding continuously.
//
// This is a deliberate trade-off — a caller can burst up to 2×limit
// across a boundary — kept for O(1) state per key. The function is pure
// so stores can be tested against it without a real clock. Note the
// count may exceed limit on write; denial is the decision's job.
func Advance(st WindowState, now time.Time, limit int, window time.Duration) (WindowState, Decision) {
	if st.Count == 0 || !now.Before(st.Start.Add(window)) {
		st = WindowState{Start: now, Count: 1}
	} else {
		st.Count++
	}

	resetAt := st.Start.Add(window)
	d := Decision{
		Admitted:  st.Count <= limit,
		Limit:     limit,
		Remaining: max(0, limit-st.Count),
		ResetAt:   resetAt,
	}
	if !d.Admitted {
		d.RetryAfter = resetAt.Sub(now)
	}
	return st, d
}

// SanitizeKeySegment escapes delimiter characters in rate limit key
// segments so a caller-controlled identifier containing ':' cannot
// collide with an adjacent bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
