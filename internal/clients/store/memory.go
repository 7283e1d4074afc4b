package store

import (
	"context"
	"sort"
	"sync"

	"nidegypt/internal/clients/models"
	dErrors "nidegypt/pkg/domain-errors"
)

// MemoryStore is an in-memory client store for tests and single-node
// deployments without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.Client
	nameIdx map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*models.Client),
		nameIdx: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nameIdx[client.Name]; exists {
		return dErrors.New(dErrors.CodeConflict, "client name already registered")
	}

	cp := *client
	s.byID[client.ID] = &cp
	s.nameIdx[client.Name] = client.ID
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.byID[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
	}
	cp := *client
	return &cp, nil
}

func (s *MemoryStore) GetByName(_ context.Context, name string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.nameIdx[name]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Client, 0, len(s.byID))
	for _, client := range s.byID {
		cp := *client
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*models.Client{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
