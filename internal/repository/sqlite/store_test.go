package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
	"github.com/mamadbah2/hatchery/internal/repository/repotest"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.BatchRepository {
		return openMemory(t)
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hatchery.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.Create(ctx, models.Batch{Name: "Quail run", SpeciesID: "quail", StartDate: "2024-04-01"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Quail run", got.Name)
}

func TestStore_FailedPatchRollsBack(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	id, err := s.Create(ctx, models.Batch{Name: "A", StartDate: "2024-01-01"})
	require.NoError(t, err)

	err = s.PatchField(ctx, id, models.FieldCandlingResults, 42)
	require.Error(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.CandlingResults)
}
