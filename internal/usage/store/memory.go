// Package store provides usage record persistence backed by Postgres
// or memory.
package store

import (
	"context"
	"sync"

	"nidegypt/internal/usage/models"
)

// MemoryStore keeps usage records in memory. For tests and deployments
// without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) ListByClient(_ context.Context, clientID string, limit int) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Record, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].ClientID != clientID {
			continue
		}
		out = append(out, s.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Len reports the total number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
