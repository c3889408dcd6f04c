package species

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

func TestDefault_GetKnownSpecies(t *testing.T) {
	table := Default()

	duck, ok := table.Get("pekin_duck")
	require.True(t, ok)
	assert.Equal(t, "Pekin Duck", duck.Name)
	assert.Equal(t, 28, duck.IncubationDays)
	assert.Equal(t, 25, duck.LockdownDay)
	assert.Equal(t, 10, duck.MistingStartDay)
	assert.Equal(t, []int{7, 10, 25}, duck.DefaultCandlingDays)
}

func TestDefault_UnknownSpeciesIsNotAnError(t *testing.T) {
	_, ok := Default().Get("ostrich")
	assert.False(t, ok)

	var nilTable *Table
	_, ok = nilTable.Get("chicken")
	assert.False(t, ok)
}

func TestDefault_EntriesAreConsistent(t *testing.T) {
	for _, s := range Default().List() {
		assert.NoError(t, Validate(s), s.ID)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	table := Default()
	chicken, _ := table.Get("chicken")
	chicken.DefaultCandlingDays[0] = 99

	again, _ := table.Get("chicken")
	assert.Equal(t, 7, again.DefaultCandlingDays[0])
}

func TestList_SortedByNameCustomLast(t *testing.T) {
	list := Default().List()
	require.Len(t, list, 8)

	assert.Equal(t, "Bobwhite Quail", list[0].Name)
	assert.Equal(t, CustomID, list[len(list)-1].ID)
	for i := 1; i < len(list)-1; i++ {
		assert.LessOrEqual(t, list[i-1].Name, list[i].Name)
	}
}

func TestNewTable_LaterEntriesWin(t *testing.T) {
	table := NewTable(
		models.Species{ID: "emu", Name: "Emu", IncubationDays: 50, LockdownDay: 48},
		models.Species{ID: "emu", Name: "Emu", IncubationDays: 52, LockdownDay: 49},
	)
	emu, ok := table.Get("emu")
	require.True(t, ok)
	assert.Equal(t, 52, emu.IncubationDays)
	assert.Equal(t, 1, table.Len())
}
