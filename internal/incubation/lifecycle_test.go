package incubation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/species"
)

func TestNormalizeCandlingDays(t *testing.T) {
	assert.Equal(t, []int{3, 7, 12}, NormalizeCandlingDays([]int{12, 3, 7, 3}))
	assert.Empty(t, NormalizeCandlingDays(nil))

	in := []int{5, 1}
	NormalizeCandlingDays(in)
	assert.Equal(t, []int{5, 1}, in, "input is not mutated")
}

func TestShouldRegenerate(t *testing.T) {
	base := duckFields(models.IncubatorManual, 5, 12)

	tests := []struct {
		name   string
		mutate func(*TimelineFields)
		want   bool
	}{
		{"identical", func(*TimelineFields) {}, false},
		{"name only", func(f *TimelineFields) { f.Name = "Renamed" }, false},
		{"custom days reordered", func(f *TimelineFields) { f.CustomCandlingDays = []int{12, 5} }, false},
		{"custom days duplicated", func(f *TimelineFields) { f.CustomCandlingDays = []int{5, 12, 12} }, false},
		{"start date", func(f *TimelineFields) { f.StartDate = "2024-01-04" }, true},
		{"species", func(f *TimelineFields) { f.SpeciesID = "chicken" }, true},
		{"incubator", func(f *TimelineFields) { f.IncubatorType = models.IncubatorAuto }, true},
		{"custom days added", func(f *TimelineFields) { f.CustomCandlingDays = []int{5, 12, 20} }, true},
		{"custom days cleared", func(f *TimelineFields) { f.CustomCandlingDays = nil }, true},
		{"species and date together", func(f *TimelineFields) { f.SpeciesID = "turkey"; f.StartDate = "2024-02-01" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := base
			next.CustomCandlingDays = append([]int(nil), base.CustomCandlingDays...)
			tt.mutate(&next)
			assert.Equal(t, tt.want, ShouldRegenerate(base, next))
		})
	}
}

func TestShouldRegenerate_EmptyIncubatorMeansManual(t *testing.T) {
	assert.False(t, ShouldRegenerate(duckFields(""), duckFields(models.IncubatorManual)))
	assert.True(t, ShouldRegenerate(duckFields(""), duckFields(models.IncubatorAuto)))
}

func completeEvery(tasks []models.Task, n int) map[string]bool {
	done := make(map[string]bool)
	for i := range tasks {
		if i%n == 0 {
			tasks[i].Completed = true
			tasks[i].Notes = "checked"
			done[tasks[i].ID] = true
		}
	}
	return done
}

func TestReconcile_NameEditPreservesCompletion(t *testing.T) {
	gen := NewGenerator(species.Default())
	prev := duckFields(models.IncubatorManual)
	tasks := gen.Generate(prev)
	done := completeEvery(tasks, 3)

	next := prev
	next.Name = "Renamed ducks"
	reconciled, regenerated := gen.Reconcile(prev, tasks, next)

	assert.False(t, regenerated)
	require.Len(t, reconciled, len(tasks))
	for _, task := range reconciled {
		assert.Equal(t, done[task.ID], task.Completed, task.ID)
		assert.Equal(t, "Renamed ducks", task.BatchName)
		if done[task.ID] {
			assert.Equal(t, "checked", task.Notes)
		}
	}
	assert.Equal(t, "Spring ducks", tasks[0].BatchName, "previous slice untouched")
}

func TestReconcile_StartDateEditResetsAndShifts(t *testing.T) {
	gen := NewGenerator(species.Default())
	prev := duckFields(models.IncubatorManual)
	tasks := gen.Generate(prev)
	completeEvery(tasks, 2)

	next := prev
	next.StartDate = "2024-01-04"
	reconciled, regenerated := gen.Reconcile(prev, tasks, next)

	assert.True(t, regenerated)
	require.Len(t, reconciled, len(tasks))

	oldByID := make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		oldByID[task.ID] = task
	}
	for _, task := range reconciled {
		assert.False(t, task.Completed, task.ID)
		assert.Empty(t, task.Notes)

		old, ok := oldByID[task.ID]
		require.True(t, ok, task.ID)
		oldDate := mustDate(t, old.Date)
		newDate := mustDate(t, task.Date)
		assert.Equal(t, 3, CurrentIncubationDay(newDate, oldDate), task.ID)
	}
}

func TestReconcile_EmptyPreviousTasksRegenerates(t *testing.T) {
	gen := NewGenerator(species.Default())
	f := duckFields(models.IncubatorManual)

	tasks, regenerated := gen.Reconcile(f, nil, f)
	assert.True(t, regenerated)
	assert.Len(t, tasks, 47)
}
