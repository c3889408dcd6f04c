package models

import (
	"fmt"
	"time"
)

// IncubatorType tells whether the incubator turns eggs by itself.
type IncubatorType string

const (
	IncubatorManual IncubatorType = "manual"
	IncubatorAuto   IncubatorType = "auto"
)

// Valid reports whether t is a known incubator type.
func (t IncubatorType) Valid() bool {
	return t == IncubatorManual || t == IncubatorAuto
}

// CandlingResult records how many eggs looked fertile on a given incubation day.
type CandlingResult struct {
	ID      string `json:"id" bson:"id"`
	Day     int    `json:"day" bson:"day"`
	Fertile int    `json:"fertile" bson:"fertile"`
	Notes   string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Batch is a group of eggs set together in one incubator.
type Batch struct {
	ID                 string           `json:"id" bson:"_id"`
	Name               string           `json:"name" bson:"name"`
	SpeciesID          string           `json:"speciesId" bson:"species_id"`
	StartDate          string           `json:"startDate" bson:"start_date"`
	NumberOfEggs       int              `json:"numberOfEggs" bson:"number_of_eggs"`
	IncubatorType      IncubatorType    `json:"incubatorType" bson:"incubator_type"`
	CustomCandlingDays []int            `json:"customCandlingDays" bson:"custom_candling_days"`
	Notes              string           `json:"notes,omitempty" bson:"notes,omitempty"`
	CandlingResults    []CandlingResult `json:"candlingResults" bson:"candling_results"`
	HatchedEggs        *int             `json:"hatchedEggs,omitempty" bson:"hatched_eggs,omitempty"`
	Tasks              []Task           `json:"tasks" bson:"tasks"`
	CreatedAt          time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time        `json:"updatedAt" bson:"updated_at"`
}

// BatchField names the batch fields that may be patched without replacing the document.
type BatchField string

const (
	FieldTasks           BatchField = "tasks"
	FieldCandlingResults BatchField = "candlingResults"
	FieldHatchedEggs     BatchField = "hatchedEggs"
)

// StorageKey returns the document key the field is stored under.
func (f BatchField) StorageKey() string {
	switch f {
	case FieldTasks:
		return "tasks"
	case FieldCandlingResults:
		return "candling_results"
	case FieldHatchedEggs:
		return "hatched_eggs"
	default:
		return ""
	}
}

// ApplyField sets a patchable field in place. The value must have the
// field's Go type ([]Task, []CandlingResult, or *int / int).
func (b *Batch) ApplyField(field BatchField, value any) error {
	switch field {
	case FieldTasks:
		tasks, ok := value.([]Task)
		if !ok {
			return fmt.Errorf("field %s expects []Task, got %T", field, value)
		}
		b.Tasks = tasks
	case FieldCandlingResults:
		results, ok := value.([]CandlingResult)
		if !ok {
			return fmt.Errorf("field %s expects []CandlingResult, got %T", field, value)
		}
		b.CandlingResults = results
	case FieldHatchedEggs:
		switch v := value.(type) {
		case int:
			b.HatchedEggs = &v
		case *int:
			b.HatchedEggs = v
		default:
			return fmt.Errorf("field %s expects int, got %T", field, value)
		}
	default:
		return fmt.Errorf("field %q cannot be patched", field)
	}
	return nil
}

// Clone returns a deep copy so callers can mutate it without touching stored state.
func (b Batch) Clone() Batch {
	out := b
	if b.CustomCandlingDays != nil {
		out.CustomCandlingDays = append([]int(nil), b.CustomCandlingDays...)
	}
	if b.CandlingResults != nil {
		out.CandlingResults = append([]CandlingResult(nil), b.CandlingResults...)
	}
	if b.Tasks != nil {
		out.Tasks = append([]Task(nil), b.Tasks...)
	}
	if b.HatchedEggs != nil {
		hatched := *b.HatchedEggs
		out.HatchedEggs = &hatched
	}
	return out
}
