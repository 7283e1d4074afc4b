// Package store provides client persistence backed by Postgres or memory.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"nidegypt/internal/clients/models"
	dErrors "nidegypt/pkg/domain-errors"
)

const pgUniqueViolation = "23505"

// PostgresStore persists clients in the clients table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, client *models.Client) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, description, api_key_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		client.ID, client.Name, client.Description, client.APIKeyHash, client.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return dErrors.New(dErrors.CodeConflict, "client name already registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert client")
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*models.Client, error) {
	return s.get(ctx, `
		SELECT id, name, description, api_key_hash, created_at
		FROM clients WHERE id = $1`, id)
}

func (s *PostgresStore) GetByName(ctx context.Context, name string) (*models.Client, error) {
	return s.get(ctx, `
		SELECT id, name, description, api_key_hash, created_at
		FROM clients WHERE name = $1`, name)
}

func (s *PostgresStore) get(ctx context.Context, query string, arg any) (*models.Client, error) {
	var client models.Client
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&client.ID, &client.Name, &client.Description, &client.APIKeyHash, &client.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query client")
	}
	return &client, nil
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, api_key_hash, created_at
		FROM clients
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list clients")
	}
	defer rows.Close()

	clients := make([]*models.Client, 0)
	for rows.Next() {
		var client models.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Description, &client.APIKeyHash, &client.CreatedAt); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan client row")
		}
		clients = append(clients, &client)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to iterate client rows")
	}
	return clients, nil
}
