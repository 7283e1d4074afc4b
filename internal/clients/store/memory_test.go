package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nidegypt/internal/clients/models"
	dErrors "nidegypt/pkg/domain-errors"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
}

func (s *MemoryStoreSuite) newClient(name string, createdAt time.Time) *models.Client {
	s.T().Helper()
	client, err := models.NewClient(name, "test client", "hash", createdAt)
	s.Require().NoError(err)
	return client
}

func (s *MemoryStoreSuite) TestCreateAndGet() {
	ctx := context.Background()
	client := s.newClient("portal", time.Now())

	s.Require().NoError(s.store.Create(ctx, client))

	byID, err := s.store.GetByID(ctx, client.ID)
	s.Require().NoError(err)
	s.Equal(client.Name, byID.Name)

	byName, err := s.store.GetByName(ctx, "portal")
	s.Require().NoError(err)
	s.Equal(client.ID, byName.ID)
}

func (s *MemoryStoreSuite) TestCreate_DuplicateName() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newClient("portal", time.Now())))

	err := s.store.Create(ctx, s.newClient("portal", time.Now()))
	s.True(dErrors.Is(err, dErrors.CodeConflict))
}

func (s *MemoryStoreSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := s.store.GetByID(ctx, "missing")
	s.True(dErrors.Is(err, dErrors.CodeNotFound))

	_, err = s.store.GetByName(ctx, "missing")
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *MemoryStoreSuite) TestList_NewestFirstWithPagination() {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"alpha", "beta", "gamma"} {
		s.Require().NoError(s.store.Create(ctx, s.newClient(name, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := s.store.List(ctx, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("gamma", all[0].Name)
	s.Equal("alpha", all[2].Name)

	page, err := s.store.List(ctx, 1, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("beta", page[0].Name)

	empty, err := s.store.List(ctx, 10, 99)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *MemoryStoreSuite) TestMutationsDoNotLeakReferences() {
	ctx := context.Background()
	client := s.newClient("portal", time.Now())
	s.Require().NoError(s.store.Create(ctx, client))

	got, err := s.store.GetByID(ctx, client.ID)
	s.Require().NoError(err)
	got.Name = "mutated"

	again, err := s.store.GetByID(ctx, client.ID)
	s.Require().NoError(err)
	s.Equal("portal", again.Name)
}
