package incubation

import (
	"slices"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// NormalizeCandlingDays returns the days sorted ascending with duplicates removed.
func NormalizeCandlingDays(days []int) []int {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

// ShouldRegenerate reports whether an edit touched a field the schedule is
// derived from. Name, notes and egg counts never force a regeneration.
func ShouldRegenerate(old, updated TimelineFields) bool {
	return old.StartDate != updated.StartDate ||
		old.SpeciesID != updated.SpeciesID ||
		normalizeIncubator(old.IncubatorType) != normalizeIncubator(updated.IncubatorType) ||
		!slices.Equal(NormalizeCandlingDays(old.CustomCandlingDays), NormalizeCandlingDays(updated.CustomCandlingDays))
}

// Reconcile decides the task list to store after an edit. When a timeline
// field changed the schedule is rebuilt from scratch and every completion flag
// resets; otherwise the previous tasks are kept as they are, only relabelled
// with the new batch name. A batch that has no stored tasks yet is always
// regenerated since there is nothing to preserve.
func (g *Generator) Reconcile(prev TimelineFields, prevTasks []models.Task, next TimelineFields) ([]models.Task, bool) {
	if len(prevTasks) == 0 || ShouldRegenerate(prev, next) {
		return g.Generate(next), true
	}

	tasks := make([]models.Task, len(prevTasks))
	for i, task := range prevTasks {
		task.BatchName = next.Name
		tasks[i] = task
	}
	return tasks, false
}

func normalizeIncubator(t models.IncubatorType) models.IncubatorType {
	if t == "" {
		return models.IncubatorManual
	}
	return t
}
