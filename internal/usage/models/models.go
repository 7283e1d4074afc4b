// Package models defines per-request API usage records.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
)

// Record captures one authenticated API call for accounting. Keep it
// transport-agnostic so stores and sinks can fan out.
type Record struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	StatusCode int       `json:"status_code"`
	DurationMs int64     `json:"duration_ms"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRecord builds a usage record, parsing browser and OS out of the
// raw User-Agent header.
func NewRecord(clientID, path, method string, statusCode int, duration time.Duration, rawUserAgent string, occurredAt time.Time) Record {
	rec := Record{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		Path:       path,
		Method:     method,
		StatusCode: statusCode,
		DurationMs: duration.Milliseconds(),
		OccurredAt: occurredAt.UTC(),
	}
	if rawUserAgent != "" {
		ua := useragent.New(rawUserAgent)
		rec.Browser, _ = ua.Browser()
		rec.OS = ua.OS()
	}
	return rec
}
