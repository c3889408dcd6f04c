package incubation

import (
	"fmt"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/species"
)

// TimelineFields are the batch fields a schedule is derived from, plus the id
// and name used to label the generated tasks.
type TimelineFields struct {
	ID                 string
	Name               string
	StartDate          string
	SpeciesID          string
	IncubatorType      models.IncubatorType
	CustomCandlingDays []int
}

// FieldsOf extracts the timeline fields of a batch.
func FieldsOf(b models.Batch) TimelineFields {
	return TimelineFields{
		ID:                 b.ID,
		Name:               b.Name,
		StartDate:          b.StartDate,
		SpeciesID:          b.SpeciesID,
		IncubatorType:      b.IncubatorType,
		CustomCandlingDays: b.CustomCandlingDays,
	}
}

const (
	qualifierDefault  = "default"
	qualifierCustom   = "custom"
	qualifierLockdown = "lockdown"
)

// Generator produces batch schedules from a species lookup.
type Generator struct {
	species species.Lookup
}

// NewGenerator wires a generator to the given species lookup.
func NewGenerator(lookup species.Lookup) *Generator {
	return &Generator{species: lookup}
}

// Species exposes the lookup the generator resolves against.
func (g *Generator) Species() species.Lookup {
	return g.species
}

// Generate returns the full task list for a batch. Unknown species and
// unreadable set dates yield an empty list rather than an error so a batch
// with legacy data still renders. Custom candling days are trusted as given.
func (g *Generator) Generate(f TimelineFields) []models.Task {
	if g == nil || g.species == nil {
		return []models.Task{}
	}
	s, ok := g.species.Get(f.SpeciesID)
	if !ok {
		return []models.Task{}
	}
	setDate, err := ParseDate(f.StartDate)
	if err != nil {
		return []models.Task{}
	}

	custom := make(map[int]struct{}, len(f.CustomCandlingDays))
	for _, d := range f.CustomCandlingDays {
		custom[d] = struct{}{}
	}
	// A missing incubator type is read as manual, matching legacy documents.
	manual := f.IncubatorType != models.IncubatorAuto

	tasks := make([]models.Task, 0, s.HatchWindowEnd()*3)
	for day := 1; day <= s.HatchWindowEnd(); day++ {
		date := FormatDate(DateForIncubationDay(setDate, day))
		emit := func(kind models.TaskType, qualifier, description string) {
			tasks = append(tasks, models.Task{
				ID:              TaskID(f.ID, kind, qualifier, day),
				BatchID:         f.ID,
				BatchName:       f.Name,
				Date:            date,
				DayOfIncubation: day,
				Type:            kind,
				Description:     description,
			})
		}

		if manual && day < s.LockdownDay {
			emit(models.TaskTurn, "", "Turn eggs")
		}
		if s.MistingStartDay <= day && day < s.LockdownDay {
			emit(models.TaskMist, "", "Mist eggs")
		}
		if s.IsDefaultCandlingDay(day) {
			emit(models.TaskCandle, qualifierDefault, fmt.Sprintf("Candle eggs, default schedule (Day %d)", day))
		}
		if _, ok := custom[day]; ok {
			emit(models.TaskCandle, qualifierCustom, fmt.Sprintf("Candle eggs, custom schedule (Day %d)", day))
		}
		if day == s.LockdownDay {
			emit(models.TaskLockdown, "", "Lockdown procedures")
			emit(models.TaskCandle, qualifierLockdown, fmt.Sprintf("Final candling before lockdown (Day %d)", day))
		}
		if s.IncubationDays <= day && day <= s.HatchWindowEnd() {
			emit(models.TaskHatchCheck, "", fmt.Sprintf("Check for hatching (Day %d)", day))
		}
	}

	return tasks
}

// GenerateTasks is a convenience wrapper around Generator.Generate.
func GenerateTasks(lookup species.Lookup, f TimelineFields) []models.Task {
	return NewGenerator(lookup).Generate(f)
}

// TaskID builds the deterministic id of a task so regenerating a schedule
// replaces tasks instead of duplicating them. The qualifier segment is only
// present for task types that can occur more than once per day.
func TaskID(batchID string, kind models.TaskType, qualifier string, day int) string {
	if qualifier == "" {
		return fmt.Sprintf("%s-%s-%d", batchID, kind, day)
	}
	return fmt.Sprintf("%s-%s-%s-%d", batchID, kind, qualifier, day)
}
