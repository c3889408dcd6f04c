package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/repository/sqlite"
	"github.com/mamadbah2/hatchery/internal/service/batches"
	"github.com/mamadbah2/hatchery/internal/species"
)

func testApp() *App {
	return &App{
		Species: species.Default(),
		Logger:  zap.NewNop(),
		Now:     func() time.Time { return time.Date(2024, 1, 27, 8, 0, 0, 0, time.UTC) },
	}
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(app)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSpeciesCmd(t *testing.T) {
	out, err := run(t, testApp(), "species")
	require.NoError(t, err)
	assert.Contains(t, out, "pekin_duck")
	assert.Contains(t, out, "7,10,25")
	assert.Contains(t, out, "from day 10")
}

func TestSpeciesCmd_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`species:
  - id: emu
    name: Emu
    incubation_days: 50
    default_candling_days: [10, 30]
    lockdown_day: 48
`), 0o600))

	out, err := run(t, testApp(), "species", "--species-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "emu")
	assert.Contains(t, out, "Emu")
}

func TestScheduleCmd(t *testing.T) {
	out, err := run(t, testApp(), "schedule", "--species", "pekin_duck", "--start", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Pekin Duck, set 2024-01-01, 47 tasks")
	assert.Contains(t, out, "Lockdown procedures")

	out, err = run(t, testApp(), "schedule", "--species", "pekin_duck", "--start", "2024-01-01", "--incubator", "auto", "--candle", "5,40", "--date", "2024-01-06")
	require.NoError(t, err)
	assert.Contains(t, out, "24 tasks", "auto schedule plus one custom candling inside the window")
	assert.Contains(t, out, "Candle eggs, custom schedule (Day 5)")
	assert.NotContains(t, out, "Turn eggs")
}

func TestScheduleCmd_Errors(t *testing.T) {
	_, err := run(t, testApp(), "schedule", "--species", "dodo", "--start", "2024-01-01")
	assert.ErrorContains(t, err, "unknown species")

	_, err = run(t, testApp(), "schedule", "--species", "chicken", "--start", "2024-01-01", "--incubator", "solar")
	assert.Error(t, err)

	_, err = run(t, testApp(), "schedule", "--species", "chicken")
	assert.Error(t, err, "start is required")
}

func TestStatusCmd(t *testing.T) {
	out, err := run(t, testApp(), "status", "--species", "pekin_duck", "--start", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Pekin Duck: Hatching Window!")
	assert.Contains(t, out, "Day 26 of 28 (93%)")
	assert.Contains(t, out, "Estimated hatch: 2024-01-29")

	out, err = run(t, testApp(), "status", "--species", "chicken", "--start", "2024-01-10", "--today", "2024-01-07")
	require.NoError(t, err)
	assert.Contains(t, out, "Chicken: Starts in 3 days")
}

func TestBatchesCmd(t *testing.T) {
	app := testApp()
	dbPath := filepath.Join(t.TempDir(), "hatchery.db")

	out, err := run(t, app, "batches", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No batches.", strings.TrimSpace(out))

	store, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	svc := batches.NewService(store, app.Species, nil, batches.WithClock(app.Now))
	_, err = svc.Create(context.Background(), batches.Input{Name: "Spring Pekins", SpeciesID: "pekin_duck", StartDate: "2024-01-01", NumberOfEggs: 12})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err = run(t, app, "batches", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Spring Pekins")
	assert.Contains(t, out, "Hatching Window!")
}
