package batches

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/incubation"
	"github.com/mamadbah2/hatchery/internal/repository"
	"github.com/mamadbah2/hatchery/internal/repository/memory"
	"github.com/mamadbah2/hatchery/internal/species"
)

func fixedClock(date string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse(time.DateOnly, date)
		return t.Add(9 * time.Hour)
	}
}

func newTestService(t *testing.T, today string) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store, species.Default(), nil, WithClock(fixedClock(today))), store
}

func duckInput() Input {
	return Input{
		Name:          "Spring Pekins",
		SpeciesID:     "pekin_duck",
		StartDate:     "2024-01-01",
		NumberOfEggs:  12,
		IncubatorType: models.IncubatorManual,
	}
}

func TestCreate(t *testing.T) {
	svc, store := newTestService(t, "2024-01-05")
	ctx := context.Background()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)
	assert.NotEmpty(t, batch.ID)
	assert.Len(t, batch.Tasks, 47)
	for _, task := range batch.Tasks {
		assert.Equal(t, batch.ID, task.BatchID)
		assert.False(t, task.Completed)
	}

	stored, err := store.Get(ctx, batch.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Tasks, 47, "tasks are persisted with the batch")
}

func TestCreate_DefaultsAndNormalization(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")

	in := duckInput()
	in.Name = "  Trimmed  "
	in.IncubatorType = ""
	in.StartDate = "2024-01-01T15:04:05Z"
	in.CustomCandlingDays = []int{40, 12, 0, 5, 12}

	batch, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Trimmed", batch.Name)
	assert.Equal(t, models.IncubatorManual, batch.IncubatorType)
	assert.Equal(t, "2024-01-01", batch.StartDate)
	assert.Equal(t, []int{5, 12}, batch.CustomCandlingDays)
}

func TestCreate_Validation(t *testing.T) {
	svc, store := newTestService(t, "2024-01-05")

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"short name", func(in *Input) { in.Name = "A" }},
		{"long name", func(in *Input) { in.Name = string(make([]rune, 51)) + "x" }},
		{"unknown species", func(in *Input) { in.SpeciesID = "dodo" }},
		{"bad date", func(in *Input) { in.StartDate = "01/02/2024" }},
		{"no eggs", func(in *Input) { in.NumberOfEggs = 0 }},
		{"too many eggs", func(in *Input) { in.NumberOfEggs = 1001 }},
		{"bad incubator", func(in *Input) { in.IncubatorType = "solar" }},
		{"long notes", func(in *Input) {
			notes := make([]rune, 501)
			for i := range notes {
				notes[i] = 'n'
			}
			in.Notes = string(notes)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := duckInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	batches, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestUpdate_NameOnlyKeepsCompletion(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	ctx := context.Background()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)
	first := batch.Tasks[0]
	_, err = svc.SetTaskCompleted(ctx, batch.ID, first.ID, true)
	require.NoError(t, err)

	in := duckInput()
	in.Name = "Renamed Pekins"
	in.NumberOfEggs = 20
	updated, err := svc.Update(ctx, batch.ID, in)
	require.NoError(t, err)

	require.Len(t, updated.Tasks, 47)
	assert.Equal(t, first.ID, updated.Tasks[0].ID)
	assert.True(t, updated.Tasks[0].Completed)
	assert.Equal(t, "Renamed Pekins", updated.Tasks[0].BatchName)
	assert.Equal(t, 20, updated.NumberOfEggs)
}

func TestUpdate_StartDateRegenerates(t *testing.T) {
	svc, store := newTestService(t, "2024-01-05")
	ctx := context.Background()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)
	for _, task := range batch.Tasks[:5] {
		_, err := svc.SetTaskCompleted(ctx, batch.ID, task.ID, true)
		require.NoError(t, err)
	}

	in := duckInput()
	in.StartDate = "2024-01-04"
	updated, err := svc.Update(ctx, batch.ID, in)
	require.NoError(t, err)

	require.Len(t, updated.Tasks, len(batch.Tasks))
	for i, task := range updated.Tasks {
		assert.False(t, task.Completed)
		before, _ := incubation.ParseDate(batch.Tasks[i].Date)
		after, _ := incubation.ParseDate(task.Date)
		assert.Equal(t, 3*24*time.Hour, after.Sub(before), "task %s shifted by the date delta", task.ID)
	}

	stored, err := store.Get(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", stored.StartDate)
	assert.Equal(t, updated.Tasks, stored.Tasks)
}

func TestUpdate_EggCountAgainstRecords(t *testing.T) {
	tests := []struct {
		name    string
		fertile []int
		hatched *int
		eggs    int
		wantErr bool
	}{
		{name: "below hatched", hatched: intPtr(10), eggs: 4, wantErr: true},
		{name: "equal to hatched", hatched: intPtr(10), eggs: 10},
		{name: "below a candled fertile count", fertile: []int{11, 9}, eggs: 10, wantErr: true},
		{name: "covers every record", fertile: []int{11, 9}, hatched: intPtr(8), eggs: 11},
		{name: "no records", eggs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, "2024-01-05")
			ctx := context.Background()

			batch, err := svc.Create(ctx, duckInput())
			require.NoError(t, err)
			for i, fertile := range tt.fertile {
				_, err := svc.AddCandlingResult(ctx, batch.ID, 7+i*3, fertile, "")
				require.NoError(t, err)
			}
			if tt.hatched != nil {
				require.NoError(t, svc.SetHatchedEggs(ctx, batch.ID, *tt.hatched))
			}

			in := duckInput()
			in.NumberOfEggs = tt.eggs
			_, err = svc.Update(ctx, batch.ID, in)

			got, getErr := svc.Get(ctx, batch.ID)
			require.NoError(t, getErr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Equal(t, 12, got.NumberOfEggs, "rejected edit leaves the batch untouched")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.eggs, got.NumberOfEggs)
			summary := incubation.Summarize(got)
			assert.LessOrEqual(t, summary.HatchRateOfTotal, 100.0)
		})
	}
}

func TestConcurrentTaskEditsAreNotLost(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	ctx := context.Background()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, task := range batch.Tasks[:20] {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.SetTaskCompleted(ctx, batch.ID, id, true)
			assert.NoError(t, err)
		}(task.ID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		in := duckInput()
		in.Name = "Renamed while toggling"
		_, err := svc.Update(ctx, batch.ID, in)
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err := svc.Get(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed while toggling", got.Name)
	for _, task := range got.Tasks[:20] {
		assert.True(t, task.Completed, "task %s", task.ID)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	_, err := svc.Update(context.Background(), "missing", duckInput())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	ctx := context.Background()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, batch.ID))

	_, err = svc.Get(ctx, batch.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, batch.ID), repository.ErrNotFound)
}

func TestTaskCompletionAndNotes(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	ctx := context.Background()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)
	taskID := batch.Tasks[3].ID

	task, err := svc.SetTaskCompleted(ctx, batch.ID, taskID, true)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Equal(t, batch.Name, task.BatchName)

	task, err = svc.UpdateTaskNotes(ctx, batch.ID, taskID, "turned twice")
	require.NoError(t, err)
	assert.Equal(t, "turned twice", task.Notes)
	assert.True(t, task.Completed)

	_, found, err := svc.FindTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "turned twice", found.Notes)

	_, err = svc.SetTaskCompleted(ctx, batch.ID, "nope", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, _, err = svc.FindTask(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCandlingAndHatch(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	ctx := context.Background()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)

	late, err := svc.AddCandlingResult(ctx, batch.ID, 25, 9, "")
	require.NoError(t, err)
	early, err := svc.AddCandlingResult(ctx, batch.ID, 7, 11, "two clears")
	require.NoError(t, err)
	assert.NotEqual(t, late.ID, early.ID)

	got, err := svc.Get(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, got.CandlingResults, 2)
	assert.Equal(t, 7, got.CandlingResults[0].Day)
	assert.Equal(t, 25, got.CandlingResults[1].Day)

	_, err = svc.AddCandlingResult(ctx, batch.ID, 29, 5, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddCandlingResult(ctx, batch.ID, 10, 13, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, svc.SetHatchedEggs(ctx, batch.ID, 10), ErrInvalidInput, "more than last fertile count")
	require.NoError(t, svc.SetHatchedEggs(ctx, batch.ID, 8))

	require.NoError(t, svc.DeleteCandlingResult(ctx, batch.ID, late.ID))
	assert.ErrorIs(t, svc.DeleteCandlingResult(ctx, batch.ID, late.ID), repository.ErrNotFound)

	got, err = svc.Get(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, got.CandlingResults, 1)
	require.NotNil(t, got.HatchedEggs)
	assert.Equal(t, 8, *got.HatchedEggs)
}

func TestSetHatchedEggs_WithoutCandling(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	ctx := context.Background()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)
	assert.ErrorIs(t, svc.SetHatchedEggs(ctx, batch.ID, 13), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetHatchedEggs(ctx, batch.ID, -1), ErrInvalidInput)
	assert.NoError(t, svc.SetHatchedEggs(ctx, batch.ID, 12))
}

func TestSubscribe(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	ctx := context.Background()

	var events []repository.EventType
	unsubscribe := svc.Subscribe(func(evt repository.ChangeEvent) { events = append(events, evt.Type) })
	defer unsubscribe()

	batch, err := svc.Create(ctx, duckInput())
	require.NoError(t, err)
	_, err = svc.SetTaskCompleted(ctx, batch.ID, batch.Tasks[0].ID, true)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, batch.ID))

	assert.Equal(t, []repository.EventType{repository.EventCreated, repository.EventUpdated, repository.EventDeleted}, events)
}

func TestParseCandlingDays(t *testing.T) {
	assert.Equal(t, []int{5, 12, 18}, ParseCandlingDays("18, 5,12 ,x, 5", 28))
	assert.Equal(t, []int{1, 28}, ParseCandlingDays("0,1,28,29,-3", 28))
	assert.Empty(t, ParseCandlingDays("", 28))
}

func intPtr(v int) *int { return &v }
