// Package repository defines the batch persistence port shared by the
// MongoDB, SQLite and in-memory adapters.
package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// ErrNotFound is returned when a batch id does not exist.
var ErrNotFound = errors.New("batch not found")

// EventType classifies a change notification.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// ChangeEvent is delivered to subscribers after a successful write. Batch is
// nil for deletions.
type ChangeEvent struct {
	Type    EventType     `json:"type"`
	BatchID string        `json:"batchId"`
	Batch   *models.Batch `json:"batch,omitempty"`
}

// BatchRepository persists whole batch documents. Tasks and candling results
// live inside the batch document, so deleting a batch removes them too.
type BatchRepository interface {
	Create(ctx context.Context, batch models.Batch) (string, error)
	Get(ctx context.Context, id string) (models.Batch, error)
	List(ctx context.Context) ([]models.Batch, error)
	Replace(ctx context.Context, id string, batch models.Batch) error
	PatchField(ctx context.Context, id string, field models.BatchField, value any) error
	Delete(ctx context.Context, id string) error
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
}

// SortByStartDate orders batches by set date, then creation time, then id.
func SortByStartDate(batches []models.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if a.StartDate != b.StartDate {
			return a.StartDate < b.StartDate
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
