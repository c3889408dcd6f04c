// Package history exports finished batches to the Google Sheets ledger.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/repository/sheets"
	"github.com/mamadbah2/hatchery/internal/service/batches"
)

const (
	historyTab   = "History"
	historyRange = historyTab + "!A:I"
	idColumn     = historyTab + "!A:A"
)

var header = []interface{}{
	"Batch ID", "Name", "Species", "Start date", "Eggs", "Fertile", "Hatched", "Fertility %", "Hatch rate %",
}

// Source lists the batches whose hatch window has closed.
type Source interface {
	History(ctx context.Context, now time.Time) ([]batches.BatchView, error)
}

// Exporter appends completed batches that the sheet does not list yet.
type Exporter struct {
	source Source
	sheet  sheets.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter wires an exporter. A nil clock falls back to time.Now.
func NewExporter(source Source, sheet sheets.Repository, now func() time.Time, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Exporter{source: source, sheet: sheet, logger: logger, now: now}
}

// Export writes the missing rows and returns how many batches were added.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	views, err := e.source.History(ctx, e.now())
	if err != nil {
		return 0, fmt.Errorf("load history: %w", err)
	}

	if err := e.sheet.EnsureTab(ctx, historyTab); err != nil {
		return 0, fmt.Errorf("prepare history tab: %w", err)
	}

	existing, err := e.sheet.ReadRange(ctx, idColumn)
	if err != nil {
		return 0, fmt.Errorf("load exported ids: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		if len(row) > 0 {
			seen[strings.TrimSpace(fmt.Sprint(row[0]))] = true
		}
	}

	var rows [][]interface{}
	if len(existing) == 0 {
		rows = append(rows, header)
	}

	added := 0
	// History is newest first; the ledger reads oldest first.
	for i := len(views) - 1; i >= 0; i-- {
		v := views[i]
		if seen[v.Batch.ID] {
			continue
		}
		rows = append(rows, Row(v))
		added++
	}

	if added == 0 {
		e.logger.Debug("history export: nothing new")
		return 0, nil
	}

	if err := e.sheet.AppendRows(ctx, historyRange, rows); err != nil {
		return 0, fmt.Errorf("append history rows: %w", err)
	}

	e.logger.Info("history exported", zap.Int("batches", added))
	return added, nil
}

// Row renders one history line. Missing measurements are left blank.
func Row(v batches.BatchView) []interface{} {
	fertile, fertility, hatched, hatchRate := "", "", "", ""
	if v.Stats.HasCandling {
		fertile = fmt.Sprint(v.Stats.FertileEggs)
		fertility = fmt.Sprintf("%.1f", v.Stats.FertilityRate)
	}
	if v.Stats.HasHatched && v.Batch.HatchedEggs != nil {
		hatched = fmt.Sprint(*v.Batch.HatchedEggs)
		hatchRate = fmt.Sprintf("%.1f", v.Stats.HatchRateOfTotal)
	}

	speciesName := v.Species.Name
	if speciesName == "" {
		speciesName = v.Batch.SpeciesID
	}

	return []interface{}{
		v.Batch.ID,
		v.Batch.Name,
		speciesName,
		v.Batch.StartDate,
		v.Batch.NumberOfEggs,
		fertile,
		hatched,
		fertility,
		hatchRate,
	}
}
