package store

import (
	"context"
	"database/sql"

	"nidegypt/internal/usage/models"
	dErrors "nidegypt/pkg/domain-errors"
)

// PostgresStore persists usage records in the api_usage table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, rec models.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_usage (id, client_id, path, method, status_code, duration_ms, browser, os, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.ClientID, rec.Path, rec.Method, rec.StatusCode,
		rec.DurationMs, rec.Browser, rec.OS, rec.OccurredAt,
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert usage record")
	}
	return nil
}

func (s *PostgresStore) ListByClient(ctx context.Context, clientID string, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, path, method, status_code, duration_ms, browser, os, occurred_at
		FROM api_usage
		WHERE client_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`, clientID, limit,
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query usage records")
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.Path, &rec.Method, &rec.StatusCode,
			&rec.DurationMs, &rec.Browser, &rec.OS, &rec.OccurredAt); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan usage row")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to iterate usage rows")
	}
	return records, nil
}
