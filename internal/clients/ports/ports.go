// Package ports declares the persistence interfaces the clients service
// depends on.
package ports

import (
	"context"

	"nidegypt/internal/clients/models"
)

// Store persists service clients.
type Store interface {
	// Create inserts a client. Returns a conflict error when the name
	// is already taken.
	Create(ctx context.Context, client *models.Client) error

	// GetByID returns the client or a not-found error.
	GetByID(ctx context.Context, id string) (*models.Client, error)

	// GetByName returns the client or a not-found error.
	GetByName(ctx context.Context, name string) (*models.Client, error)

	// List returns clients ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Client, error)
}
