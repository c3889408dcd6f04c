package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/incubation"
	"github.com/mamadbah2/hatchery/internal/service/batches"
)

type fakeSheet struct {
	tabs     []string
	rows     [][]interface{}
	appended [][]interface{}
	ranges   []string
}

func (f *fakeSheet) EnsureTab(_ context.Context, title string) error {
	f.tabs = append(f.tabs, title)
	return nil
}

func (f *fakeSheet) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	f.ranges = append(f.ranges, sheetRange)
	f.appended = append(f.appended, rows...)
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeSheet) ReadRange(context.Context, string) ([][]interface{}, error) {
	out := make([][]interface{}, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r[:1])
	}
	return out, nil
}

type fakeSource []batches.BatchView

func (f fakeSource) History(context.Context, time.Time) ([]batches.BatchView, error) {
	return f, nil
}

func view(id, start string, hatched *int, results ...models.CandlingResult) batches.BatchView {
	b := models.Batch{ID: id, Name: "Batch " + id, SpeciesID: "chicken", StartDate: start, NumberOfEggs: 10, HatchedEggs: hatched, CandlingResults: results}
	return batches.BatchView{Batch: b, Species: models.Species{Name: "Chicken"}, Stats: incubation.Summarize(b)}
}

func TestExport(t *testing.T) {
	eight := 8
	src := fakeSource{
		view("new", "2024-03-01", &eight, models.CandlingResult{Day: 7, Fertile: 9}),
		view("old", "2024-01-01", nil),
	}
	sheet := &fakeSheet{}
	exp := NewExporter(src, sheet, nil, nil)

	added, err := exp.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	require.Len(t, sheet.appended, 3)
	assert.Equal(t, header, sheet.appended[0])
	assert.Equal(t, []string{"History"}, sheet.tabs)
	assert.Equal(t, []interface{}{"old", "Batch old", "Chicken", "2024-01-01", 10, "", "", "", ""}, sheet.appended[1])
	assert.Equal(t, []interface{}{"new", "Batch new", "Chicken", "2024-03-01", 10, "9", "8", "90.0", "80.0"}, sheet.appended[2])
	assert.Equal(t, []string{historyRange}, sheet.ranges)

	added, err = exp.Export(context.Background())
	require.NoError(t, err)
	assert.Zero(t, added, "already exported batches are skipped")
	assert.Len(t, sheet.ranges, 1)
}

func TestExport_AppendsOnlyMissing(t *testing.T) {
	sheet := &fakeSheet{rows: [][]interface{}{header, {"a"}}}
	exp := NewExporter(fakeSource{view("a", "2024-01-01", nil), view("b", "2024-02-01", nil)}, sheet, nil, nil)

	added, err := exp.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, sheet.appended, 1)
	assert.Equal(t, "b", sheet.appended[0][0])
}
