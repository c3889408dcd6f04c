// Package repotest holds the behaviour every BatchRepository adapter must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
)

// Run exercises repo-independent behaviour against a fresh repository from newRepo.
func Run(t *testing.T, newRepo func(t *testing.T) repository.BatchRepository) {
	t.Helper()

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		batch := sampleBatch("", "2024-01-01")
		id, err := repo.Create(ctx, batch)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, batch.Name, got.Name)
		assert.Equal(t, batch.SpeciesID, got.SpeciesID)
		assert.Equal(t, []int{5, 12}, got.CustomCandlingDays)
		assert.Len(t, got.Tasks, 2)
		assert.Equal(t, batch.Tasks[1].ID, got.Tasks[1].ID)
		assert.Nil(t, got.HatchedEggs)
	})

	t.Run("create keeps a caller id", func(t *testing.T) {
		repo := newRepo(t)
		id, err := repo.Create(context.Background(), sampleBatch("fixed-id", "2024-01-01"))
		require.NoError(t, err)
		assert.Equal(t, "fixed-id", id)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("list orders by start date", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, b := range []models.Batch{
			sampleBatch("c", "2024-03-01"),
			sampleBatch("a", "2024-01-01"),
			sampleBatch("b", "2024-02-01"),
		} {
			_, err := repo.Create(ctx, b)
			require.NoError(t, err)
		}

		batches, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, batches, 3)
		assert.Equal(t, "a", batches[0].ID)
		assert.Equal(t, "b", batches[1].ID)
		assert.Equal(t, "c", batches[2].ID)
	})

	t.Run("list empty", func(t *testing.T) {
		batches, err := newRepo(t).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, batches)
	})

	t.Run("replace", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id, err := repo.Create(ctx, sampleBatch("", "2024-01-01"))
		require.NoError(t, err)

		updated := sampleBatch("ignored", "2024-01-05")
		updated.Name = "Renamed"
		updated.Tasks = updated.Tasks[:1]
		require.NoError(t, repo.Replace(ctx, id, updated))

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, "2024-01-05", got.StartDate)
		assert.Len(t, got.Tasks, 1)

		err = repo.Replace(ctx, "missing", updated)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("patch fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id, err := repo.Create(ctx, sampleBatch("", "2024-01-01"))
		require.NoError(t, err)

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		tasks := got.Tasks
		tasks[0].Completed = true
		tasks[0].Notes = "rotated 3x"
		require.NoError(t, repo.PatchField(ctx, id, models.FieldTasks, tasks))

		results := []models.CandlingResult{{ID: "r1", Day: 7, Fertile: 9}}
		require.NoError(t, repo.PatchField(ctx, id, models.FieldCandlingResults, results))
		require.NoError(t, repo.PatchField(ctx, id, models.FieldHatchedEggs, 8))

		got, err = repo.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Tasks[0].Completed)
		assert.Equal(t, "rotated 3x", got.Tasks[0].Notes)
		assert.False(t, got.Tasks[1].Completed)
		assert.Equal(t, results, got.CandlingResults)
		require.NotNil(t, got.HatchedEggs)
		assert.Equal(t, 8, *got.HatchedEggs)
		assert.Equal(t, "Spring ducks", got.Name, "untouched fields survive a patch")

		err = repo.PatchField(ctx, "missing", models.FieldHatchedEggs, 1)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id, err := repo.Create(ctx, sampleBatch("", "2024-01-01"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, id))
		_, err = repo.Get(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, id), repository.ErrNotFound)
	})

	t.Run("subscribe", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var events []repository.ChangeEvent
		unsubscribe := repo.Subscribe(func(evt repository.ChangeEvent) {
			events = append(events, evt)
		})

		id, err := repo.Create(ctx, sampleBatch("", "2024-01-01"))
		require.NoError(t, err)
		require.NoError(t, repo.PatchField(ctx, id, models.FieldHatchedEggs, 3))
		require.NoError(t, repo.Delete(ctx, id))

		unsubscribe()
		_, err = repo.Create(ctx, sampleBatch("", "2024-01-02"))
		require.NoError(t, err)

		require.Len(t, events, 3)
		assert.Equal(t, repository.EventCreated, events[0].Type)
		assert.Equal(t, id, events[0].BatchID)
		assert.Equal(t, repository.EventUpdated, events[1].Type)
		require.NotNil(t, events[1].Batch)
		require.NotNil(t, events[1].Batch.HatchedEggs)
		assert.Equal(t, 3, *events[1].Batch.HatchedEggs)
		assert.Equal(t, repository.EventDeleted, events[2].Type)
		assert.Nil(t, events[2].Batch)
	})
}

func sampleBatch(id, startDate string) models.Batch {
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	return models.Batch{
		ID:                 id,
		Name:               "Spring ducks",
		SpeciesID:          "pekin_duck",
		StartDate:          startDate,
		NumberOfEggs:       12,
		IncubatorType:      models.IncubatorManual,
		CustomCandlingDays: []int{5, 12},
		Tasks: []models.Task{
			{ID: id + "-turn-1", BatchID: id, Date: startDate, DayOfIncubation: 1, Type: models.TaskTurn, Description: "Turn eggs"},
			{ID: id + "-turn-2", BatchID: id, Date: startDate, DayOfIncubation: 2, Type: models.TaskTurn, Description: "Turn eggs"},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}
