// Package ports declares the persistence interface for usage records.
package ports

import (
	"context"

	"nidegypt/internal/usage/models"
)

// Store persists usage records. Append-only.
type Store interface {
	Append(ctx context.Context, rec models.Record) error

	// ListByClient returns the most recent records for a client,
	// newest first, capped at limit.
	ListByClient(ctx context.Context, clientID string, limit int) ([]models.Record, error)
}
