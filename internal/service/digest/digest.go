// Package digest renders the plain-text summaries sent over WhatsApp.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/service/batches"
)

// DashboardSource yields the dashboard the digest is rendered from.
type DashboardSource interface {
	Dashboard(ctx context.Context, now time.Time) (batches.Dashboard, error)
}

// Service builds chat-friendly summaries of today's work.
type Service struct {
	source DashboardSource
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a digest service. A nil clock falls back to time.Now.
func NewService(source DashboardSource, now func() time.Time, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{source: source, logger: logger, now: now}
}

// PendingTasks lists today's unfinished tasks with their ids, so keepers can reply /done <id>.
func (s *Service) PendingTasks(ctx context.Context) (string, error) {
	dash, err := s.source.Dashboard(ctx, s.now())
	if err != nil {
		return "", fmt.Errorf("load dashboard: %w", err)
	}
	return renderPending(dash), nil
}

// BatchStatuses summarises every batch currently in the incubator.
func (s *Service) BatchStatuses(ctx context.Context) (string, error) {
	dash, err := s.source.Dashboard(ctx, s.now())
	if err != nil {
		return "", fmt.Errorf("load dashboard: %w", err)
	}
	return renderStatuses(dash), nil
}

// DailyDigest combines batch statuses and pending tasks into the morning message.
func (s *Service) DailyDigest(ctx context.Context) (string, error) {
	dash, err := s.source.Dashboard(ctx, s.now())
	if err != nil {
		return "", fmt.Errorf("load dashboard: %w", err)
	}

	s.logger.Debug("rendering daily digest",
		zap.String("date", dash.Date),
		zap.Int("batches", len(dash.Batches)),
		zap.Int("pending", dash.PendingToday))

	var b strings.Builder
	fmt.Fprintf(&b, "Hatchery digest for %s\n\n", dash.Date)
	b.WriteString(renderStatuses(dash))
	b.WriteString("\n\n")
	b.WriteString(renderPending(dash))
	return b.String(), nil
}

func renderStatuses(dash batches.Dashboard) string {
	if len(dash.Batches) == 0 {
		return "No batches in the incubator."
	}

	var b strings.Builder
	b.WriteString("Batches:")
	for _, v := range dash.Batches {
		fmt.Fprintf(&b, "\n- %s (%s): %s", v.Batch.Name, v.Species.Name, v.Label)
		if v.ProgressLabel != "" {
			fmt.Fprintf(&b, ", %s (%.0f%%)", v.ProgressLabel, v.Progress)
		}
		if v.EstimatedHatchDate != "" {
			fmt.Fprintf(&b, ", hatch ~%s", v.EstimatedHatchDate)
		}
	}
	return b.String()
}

func renderPending(dash batches.Dashboard) string {
	var pending []models.Task
	for _, t := range dash.TodayTasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}

	if len(pending) == 0 {
		return fmt.Sprintf("No pending tasks for %s.", dash.Date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pending tasks for %s (%d):", dash.Date, len(pending))
	for _, t := range pending {
		fmt.Fprintf(&b, "\n- [%s] %s: %s (day %d)", t.ID, t.BatchName, t.Description, t.DayOfIncubation)
	}
	b.WriteString("\nReply /done <id> when finished.")
	return b.String()
}
