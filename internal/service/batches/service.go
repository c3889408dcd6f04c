// Package batches owns the batch lifecycle: validation, schedule generation
// and regeneration, task completion, candling and hatch records.
package batches

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/incubation"
	"github.com/mamadbah2/hatchery/internal/repository"
	"github.com/mamadbah2/hatchery/internal/species"
)

// Service coordinates batch writes against a BatchRepository.
type Service struct {
	repo    repository.BatchRepository
	species species.Lookup
	gen     *incubation.Generator
	logger  *zap.Logger
	now     func() time.Time
	locks   batchLocks
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now, mostly for tests and for pinning a timezone.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires a batch service.
func NewService(repo repository.BatchRepository, lookup species.Lookup, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lookup == nil {
		lookup = species.Default()
	}

	s := &Service{
		repo:    repo,
		species: lookup,
		gen:     incubation.NewGenerator(lookup),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.now()
}

// Species returns the lookup batches are validated against.
func (s *Service) Species() species.Lookup {
	return s.species
}

// Create validates the input, generates the schedule and stores the batch in a single write.
func (s *Service) Create(ctx context.Context, in Input) (models.Batch, error) {
	in, _, err := s.normalize(in)
	if err != nil {
		return models.Batch{}, err
	}

	now := s.now().UTC()
	batch := models.Batch{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		SpeciesID:          in.SpeciesID,
		StartDate:          in.StartDate,
		NumberOfEggs:       in.NumberOfEggs,
		IncubatorType:      in.IncubatorType,
		CustomCandlingDays: in.CustomCandlingDays,
		Notes:              in.Notes,
		CandlingResults:    []models.CandlingResult{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	batch.Tasks = s.gen.Generate(incubation.FieldsOf(batch))
	if len(batch.Tasks) == 0 {
		s.logger.Warn("generated empty schedule", zap.String("batch_id", batch.ID), zap.String("species", batch.SpeciesID))
	}

	if _, err := s.repo.Create(ctx, batch); err != nil {
		return models.Batch{}, fmt.Errorf("create batch: %w", err)
	}

	s.logger.Info("batch created",
		zap.String("batch_id", batch.ID),
		zap.String("species", batch.SpeciesID),
		zap.String("start_date", batch.StartDate),
		zap.Int("tasks", len(batch.Tasks)),
	)
	return batch, nil
}

// Update applies the edit and writes the batch back together with its
// reconciled tasks. Tasks are regenerated only when a timeline field changed.
func (s *Service) Update(ctx context.Context, id string, in Input) (models.Batch, error) {
	in, _, err := s.normalize(in)
	if err != nil {
		return models.Batch{}, err
	}

	defer s.locks.lock(id)()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Batch{}, fmt.Errorf("load batch: %w", err)
	}
	if err := validateEggCount(current, in.NumberOfEggs); err != nil {
		return models.Batch{}, err
	}

	updated := current.Clone()
	updated.Name = in.Name
	updated.SpeciesID = in.SpeciesID
	updated.StartDate = in.StartDate
	updated.NumberOfEggs = in.NumberOfEggs
	updated.IncubatorType = in.IncubatorType
	updated.CustomCandlingDays = in.CustomCandlingDays
	updated.Notes = in.Notes
	updated.UpdatedAt = s.now().UTC()

	tasks, regenerated := s.gen.Reconcile(incubation.FieldsOf(current), current.Tasks, incubation.FieldsOf(updated))
	updated.Tasks = tasks

	if err := s.repo.Replace(ctx, id, updated); err != nil {
		return models.Batch{}, fmt.Errorf("update batch: %w", err)
	}

	s.logger.Info("batch updated", zap.String("batch_id", id), zap.Bool("tasks_regenerated", regenerated))
	return updated, nil
}

// Delete removes the batch along with its tasks and candling results.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer func() {
		unlock()
		s.locks.forget(id)
	}()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	s.logger.Info("batch deleted", zap.String("batch_id", id))
	return nil
}

// Get returns a single batch.
func (s *Service) Get(ctx context.Context, id string) (models.Batch, error) {
	batch, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Batch{}, fmt.Errorf("load batch: %w", err)
	}
	return batch, nil
}

// List returns every batch ordered by start date.
func (s *Service) List(ctx context.Context) ([]models.Batch, error) {
	batches, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// SetTaskCompleted flips the completion flag of one task.
func (s *Service) SetTaskCompleted(ctx context.Context, batchID, taskID string, completed bool) (models.Task, error) {
	return s.patchTask(ctx, batchID, taskID, func(t *models.Task) { t.Completed = completed })
}

// UpdateTaskNotes replaces the notes of one task.
func (s *Service) UpdateTaskNotes(ctx context.Context, batchID, taskID, notes string) (models.Task, error) {
	return s.patchTask(ctx, batchID, taskID, func(t *models.Task) { t.Notes = notes })
}

func (s *Service) patchTask(ctx context.Context, batchID, taskID string, mutate func(*models.Task)) (models.Task, error) {
	defer s.locks.lock(batchID)()

	batch, err := s.repo.Get(ctx, batchID)
	if err != nil {
		return models.Task{}, fmt.Errorf("load batch: %w", err)
	}

	idx := -1
	for i := range batch.Tasks {
		if batch.Tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", taskID, repository.ErrNotFound)
	}

	mutate(&batch.Tasks[idx])
	if err := s.repo.PatchField(ctx, batchID, models.FieldTasks, batch.Tasks); err != nil {
		return models.Task{}, fmt.Errorf("save tasks: %w", err)
	}

	task := batch.Tasks[idx]
	task.BatchName = batch.Name
	return task, nil
}

// FindTask locates a task by id across all batches. Task ids embed the batch
// id, so this is what chat commands use when only the task id is known.
func (s *Service) FindTask(ctx context.Context, taskID string) (models.Batch, models.Task, error) {
	batches, err := s.repo.List(ctx)
	if err != nil {
		return models.Batch{}, models.Task{}, fmt.Errorf("list batches: %w", err)
	}
	for _, b := range batches {
		for _, t := range b.Tasks {
			if t.ID == taskID {
				t.BatchName = b.Name
				return b, t, nil
			}
		}
	}
	return models.Batch{}, models.Task{}, fmt.Errorf("task %s: %w", taskID, repository.ErrNotFound)
}

// AddCandlingResult records a candling observation. Results stay sorted by day.
func (s *Service) AddCandlingResult(ctx context.Context, batchID string, day, fertile int, notes string) (models.CandlingResult, error) {
	defer s.locks.lock(batchID)()

	batch, err := s.repo.Get(ctx, batchID)
	if err != nil {
		return models.CandlingResult{}, fmt.Errorf("load batch: %w", err)
	}

	sp, ok := s.species.Get(batch.SpeciesID)
	if !ok {
		return models.CandlingResult{}, invalid("batch species %q is unknown", batch.SpeciesID)
	}
	if err := validateCandling(batch, sp, day, fertile); err != nil {
		return models.CandlingResult{}, err
	}

	result := models.CandlingResult{ID: uuid.NewString(), Day: day, Fertile: fertile, Notes: notes}
	results := append(batch.CandlingResults, result)
	sortCandling(results)

	if err := s.repo.PatchField(ctx, batchID, models.FieldCandlingResults, results); err != nil {
		return models.CandlingResult{}, fmt.Errorf("save candling results: %w", err)
	}

	s.logger.Info("candling recorded", zap.String("batch_id", batchID), zap.Int("day", day), zap.Int("fertile", fertile))
	return result, nil
}

// DeleteCandlingResult removes one candling observation.
func (s *Service) DeleteCandlingResult(ctx context.Context, batchID, resultID string) error {
	defer s.locks.lock(batchID)()

	batch, err := s.repo.Get(ctx, batchID)
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}

	kept := make([]models.CandlingResult, 0, len(batch.CandlingResults))
	for _, r := range batch.CandlingResults {
		if r.ID != resultID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(batch.CandlingResults) {
		return fmt.Errorf("candling result %s: %w", resultID, repository.ErrNotFound)
	}

	if err := s.repo.PatchField(ctx, batchID, models.FieldCandlingResults, kept); err != nil {
		return fmt.Errorf("save candling results: %w", err)
	}
	return nil
}

// SetHatchedEggs records how many eggs hatched.
func (s *Service) SetHatchedEggs(ctx context.Context, batchID string, count int) error {
	defer s.locks.lock(batchID)()

	batch, err := s.repo.Get(ctx, batchID)
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}
	if err := validateHatched(batch, count); err != nil {
		return err
	}

	if err := s.repo.PatchField(ctx, batchID, models.FieldHatchedEggs, count); err != nil {
		return fmt.Errorf("save hatched eggs: %w", err)
	}

	s.logger.Info("hatch recorded", zap.String("batch_id", batchID), zap.Int("hatched", count))
	return nil
}

// Subscribe forwards repository change events to fn.
func (s *Service) Subscribe(fn func(repository.ChangeEvent)) func() {
	return s.repo.Subscribe(fn)
}
