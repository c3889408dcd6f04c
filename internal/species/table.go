// Package species holds the per-species incubation parameters.
package species

import (
	"sort"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// CustomID is the placeholder species keepers pick for birds not in the table.
const CustomID = "custom"

var defaults = []models.Species{
	{
		ID:                  "chicken",
		Name:                "Chicken",
		IncubationDays:      21,
		DefaultCandlingDays: []int{7, 14},
		MistingStartDay:     models.NoMisting,
		LockdownDay:         19,
	},
	{
		ID:                  "pekin_duck",
		Name:                "Pekin Duck",
		IncubationDays:      28,
		DefaultCandlingDays: []int{7, 10, 25},
		MistingStartDay:     10,
		LockdownDay:         25,
	},
	{
		ID:                  "muscovy_duck",
		Name:                "Muscovy Duck",
		IncubationDays:      35,
		DefaultCandlingDays: []int{10, 20, 30},
		MistingStartDay:     10,
		LockdownDay:         32,
	},
	{
		ID:                  "turkey",
		Name:                "Turkey",
		IncubationDays:      28,
		DefaultCandlingDays: []int{10, 14, 25},
		MistingStartDay:     models.NoMisting,
		LockdownDay:         26,
	},
	{
		ID:                  "goose_general",
		Name:                "Goose (General)",
		IncubationDays:      30,
		DefaultCandlingDays: []int{7, 10, 17, 24},
		MistingStartDay:     8,
		LockdownDay:         27,
	},
	{
		ID:                  "coturnix_quail",
		Name:                "Coturnix Quail",
		IncubationDays:      17,
		DefaultCandlingDays: []int{7, 14},
		MistingStartDay:     models.NoMisting,
		LockdownDay:         15,
	},
	{
		ID:                  "bobwhite_quail",
		Name:                "Bobwhite Quail",
		IncubationDays:      23,
		DefaultCandlingDays: []int{12, 15},
		MistingStartDay:     models.NoMisting,
		LockdownDay:         21,
	},
	{
		ID:                  CustomID,
		Name:                "Custom (Define Params)",
		IncubationDays:      1,
		DefaultCandlingDays: []int{},
		MistingStartDay:     models.NoMisting,
		LockdownDay:         1,
	},
}

// Lookup resolves species by id. Implementations must not fail: unknown ids
// simply report false.
type Lookup interface {
	Get(id string) (models.Species, bool)
}

// Table is an immutable species lookup safe for concurrent readers.
type Table struct {
	byID map[string]models.Species
}

// NewTable builds a table from the given entries. Later entries win on duplicate ids.
func NewTable(entries ...models.Species) *Table {
	t := &Table{byID: make(map[string]models.Species, len(entries))}
	for _, entry := range entries {
		t.byID[entry.ID] = copySpecies(entry)
	}
	return t
}

// Default returns the built-in species table.
func Default() *Table {
	return NewTable(defaults...)
}

// Get returns the species registered under id.
func (t *Table) Get(id string) (models.Species, bool) {
	if t == nil {
		return models.Species{}, false
	}
	s, ok := t.byID[id]
	if !ok {
		return models.Species{}, false
	}
	return copySpecies(s), true
}

// List returns every species sorted by name, with the custom placeholder last.
func (t *Table) List() []models.Species {
	if t == nil {
		return nil
	}
	out := make([]models.Species, 0, len(t.byID))
	for _, s := range t.byID {
		out = append(out, copySpecies(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID == CustomID {
			return false
		}
		if out[j].ID == CustomID {
			return true
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len reports the number of species in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byID)
}

func copySpecies(s models.Species) models.Species {
	s.DefaultCandlingDays = append([]int{}, s.DefaultCandlingDays...)
	return s
}
