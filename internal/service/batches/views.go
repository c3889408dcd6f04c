package batches

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/incubation"
)

// BatchView is a batch annotated with everything derived from the clock.
type BatchView struct {
	Batch              models.Batch            `json:"batch"`
	Species            models.Species          `json:"species"`
	Status             incubation.Status       `json:"status"`
	Label              string                  `json:"label"`
	ProgressLabel      string                  `json:"progressLabel,omitempty"`
	Progress           float64                 `json:"progress"`
	EstimatedHatchDate string                  `json:"estimatedHatchDate,omitempty"`
	Stats              incubation.HatchSummary `json:"stats"`
	PendingToday       int                     `json:"pendingToday"`
}

// Dashboard lists the batches currently in the incubator and today's work.
type Dashboard struct {
	Date         string        `json:"date"`
	Batches      []BatchView   `json:"batches"`
	TodayTasks   []models.Task `json:"todayTasks"`
	PendingToday int           `json:"pendingToday"`
}

// View annotates one batch as of the service clock.
func (s *Service) View(ctx context.Context, id string) (BatchView, error) {
	batch, err := s.Get(ctx, id)
	if err != nil {
		return BatchView{}, err
	}
	return s.describe(s.now(), batch), nil
}

func (s *Service) describe(now time.Time, batch models.Batch) BatchView {
	today := incubation.FormatDate(now)
	view := BatchView{
		Batch: batch,
		Stats: incubation.Summarize(batch),
	}

	sp, ok := s.species.Get(batch.SpeciesID)
	if !ok {
		view.Status = incubation.Status{Phase: incubation.PhaseUnknown}
		view.Label = view.Status.Label()
		return view
	}

	view.Species = sp
	view.Status = incubation.ClassifyStatus(now, batch, sp)
	view.Label = view.Status.Label()
	view.ProgressLabel = view.Status.ProgressLabel()
	view.Progress = view.Status.Progress()
	if setDate, err := incubation.ParseDate(batch.StartDate); err == nil {
		view.EstimatedHatchDate = incubation.FormatDate(incubation.EstimatedHatchDate(setDate, sp.IncubationDays))
	}
	for _, t := range batch.Tasks {
		if t.Date == today && !t.Completed {
			view.PendingToday++
		}
	}
	return view
}

// AllTasks returns the tasks of every batch, labelled with the current batch
// name and sorted by date.
func (s *Service) AllTasks(ctx context.Context) ([]models.Task, error) {
	batches, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	for _, b := range batches {
		for _, t := range b.Tasks {
			t.BatchName = b.Name
			tasks = append(tasks, t)
		}
	}
	incubation.SortTasks(tasks)
	return tasks, nil
}

// TasksForDate returns the tasks scheduled on date (YYYY-MM-DD).
func (s *Service) TasksForDate(ctx context.Context, date string) ([]models.Task, error) {
	day, err := incubation.ParseDate(date)
	if err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	date = incubation.FormatDate(day)

	all, err := s.AllTasks(ctx)
	if err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	for _, t := range all {
		if t.Date == date {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// Dashboard builds the view of the batches between set day and the end of
// their hatch window, as of now.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (Dashboard, error) {
	batches, err := s.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	today := incubation.FormatDate(now)
	dash := Dashboard{Date: today, Batches: []BatchView{}, TodayTasks: []models.Task{}}

	for _, b := range batches {
		sp, ok := s.species.Get(b.SpeciesID)
		if !ok {
			continue
		}
		setDate, err := incubation.ParseDate(b.StartDate)
		if err != nil || !incubation.IsActive(now, setDate, sp) {
			continue
		}

		view := s.describe(now, b)
		dash.Batches = append(dash.Batches, view)
		dash.PendingToday += view.PendingToday
		for _, t := range b.Tasks {
			if t.Date == today {
				t.BatchName = b.Name
				dash.TodayTasks = append(dash.TodayTasks, t)
			}
		}
	}

	incubation.SortTasks(dash.TodayTasks)
	return dash, nil
}

// History returns the batches whose hatch window has closed, newest first.
func (s *Service) History(ctx context.Context, now time.Time) ([]BatchView, error) {
	batches, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	views := []BatchView{}
	for _, b := range batches {
		sp, ok := s.species.Get(b.SpeciesID)
		if !ok {
			continue
		}
		setDate, err := incubation.ParseDate(b.StartDate)
		if err != nil || !incubation.IsCompleted(now, setDate, sp) {
			continue
		}
		views = append(views, s.describe(now, b))
	}

	slices.SortStableFunc(views, func(a, b BatchView) int {
		return strings.Compare(b.Batch.StartDate, a.Batch.StartDate)
	})
	return views, nil
}

// Today is the service clock's calendar date.
func (s *Service) Today() string {
	return incubation.FormatDate(s.now())
}

func (v BatchView) String() string {
	return fmt.Sprintf("%s (%s): %s", v.Batch.Name, v.Species.Name, v.Label)
}
