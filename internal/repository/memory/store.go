// Package memory is an in-process BatchRepository used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
)

// Store keeps batches in a map guarded by a RWMutex. Stored values are deep
// copied on the way in and out.
type Store struct {
	mu      sync.RWMutex
	batches map[string]models.Batch
	events  repository.Broadcaster
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{batches: make(map[string]models.Batch)}
}

var _ repository.BatchRepository = (*Store)(nil)

// Create stores a new batch, assigning an id when the batch has none.
func (s *Store) Create(ctx context.Context, batch models.Batch) (string, error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}

	s.mu.Lock()
	if _, exists := s.batches[batch.ID]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("batch %s already exists", batch.ID)
	}
	s.batches[batch.ID] = batch.Clone()
	s.mu.Unlock()

	s.publish(repository.EventCreated, batch)
	return batch.ID, nil
}

// Get returns a copy of the batch.
func (s *Store) Get(ctx context.Context, id string) (models.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch, ok := s.batches[id]
	if !ok {
		return models.Batch{}, fmt.Errorf("get batch %s: %w", id, repository.ErrNotFound)
	}
	return batch.Clone(), nil
}

// List returns every batch ordered by set date.
func (s *Store) List(ctx context.Context) ([]models.Batch, error) {
	s.mu.RLock()
	out := make([]models.Batch, 0, len(s.batches))
	for _, batch := range s.batches {
		out = append(out, batch.Clone())
	}
	s.mu.RUnlock()

	repository.SortByStartDate(out)
	return out, nil
}

// Replace overwrites the whole document.
func (s *Store) Replace(ctx context.Context, id string, batch models.Batch) error {
	batch.ID = id

	s.mu.Lock()
	if _, ok := s.batches[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("replace batch %s: %w", id, repository.ErrNotFound)
	}
	s.batches[id] = batch.Clone()
	s.mu.Unlock()

	s.publish(repository.EventUpdated, batch)
	return nil
}

// PatchField updates a single field of the document.
func (s *Store) PatchField(ctx context.Context, id string, field models.BatchField, value any) error {
	s.mu.Lock()
	batch, ok := s.batches[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("patch batch %s: %w", id, repository.ErrNotFound)
	}
	batch = batch.Clone()
	if err := batch.ApplyField(field, value); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("patch batch %s: %w", id, err)
	}
	s.batches[id] = batch.Clone()
	s.mu.Unlock()

	s.publish(repository.EventUpdated, batch)
	return nil
}

// Delete removes the batch and, with it, its tasks and candling results.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.batches[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("delete batch %s: %w", id, repository.ErrNotFound)
	}
	delete(s.batches, id)
	s.mu.Unlock()

	s.events.Publish(repository.ChangeEvent{Type: repository.EventDeleted, BatchID: id})
	return nil
}

// Subscribe registers a change listener.
func (s *Store) Subscribe(fn func(repository.ChangeEvent)) func() {
	return s.events.Subscribe(fn)
}

func (s *Store) publish(kind repository.EventType, batch models.Batch) {
	snapshot := batch.Clone()
	s.events.Publish(repository.ChangeEvent{Type: kind, BatchID: batch.ID, Batch: &snapshot})
}
