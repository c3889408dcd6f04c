// Package sqlite stores batch documents as JSON rows in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS batches (
		id         TEXT PRIMARY KEY,
		start_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		document   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_batches_start_date ON batches(start_date)`,
}

// Store is a BatchRepository backed by database/sql and the pure-Go SQLite driver.
type Store struct {
	db     *sql.DB
	events repository.Broadcaster
}

var _ repository.BatchRepository = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every pooled connection to :memory: would see its own empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new batch document, assigning an id when missing.
func (s *Store) Create(ctx context.Context, batch models.Batch) (string, error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}

	doc, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("encoding batch: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO batches (id, start_date, created_at, document) VALUES (?, ?, ?, ?)`,
		batch.ID, batch.StartDate, batch.CreatedAt.UTC().Format(time.RFC3339Nano), string(doc))
	if err != nil {
		return "", fmt.Errorf("inserting batch: %w", err)
	}

	s.publish(repository.EventCreated, batch)
	return batch.ID, nil
}

// Get loads one batch document.
func (s *Store) Get(ctx context.Context, id string) (models.Batch, error) {
	return getBatch(ctx, s.db, id)
}

// List returns all batches ordered by set date.
func (s *Store) List(ctx context.Context) ([]models.Batch, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM batches ORDER BY start_date, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	batches := []models.Batch{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		var batch models.Batch
		if err := json.Unmarshal([]byte(doc), &batch); err != nil {
			return nil, fmt.Errorf("decoding batch: %w", err)
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batches: %w", err)
	}
	return batches, nil
}

// Replace overwrites the whole document in a single statement.
func (s *Store) Replace(ctx context.Context, id string, batch models.Batch) error {
	batch.ID = id
	if err := s.write(ctx, s.db, batch); err != nil {
		return fmt.Errorf("replace batch %s: %w", id, err)
	}
	s.publish(repository.EventUpdated, batch)
	return nil
}

// PatchField reads, modifies and writes the document inside one transaction.
func (s *Store) PatchField(ctx context.Context, id string, field models.BatchField, value any) error {
	var patched models.Batch
	err := s.withinTx(ctx, func(tx *sql.Tx) error {
		batch, err := getBatch(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := batch.ApplyField(field, value); err != nil {
			return err
		}
		patched = batch
		return s.write(ctx, tx, batch)
	})
	if err != nil {
		return fmt.Errorf("patch batch %s: %w", id, err)
	}

	s.publish(repository.EventUpdated, patched)
	return nil
}

// Delete removes the batch row.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete batch %s: %w", id, repository.ErrNotFound)
	}

	s.events.Publish(repository.ChangeEvent{Type: repository.EventDeleted, BatchID: id})
	return nil
}

// Subscribe registers a change listener for writes made through this store.
func (s *Store) Subscribe(fn func(repository.ChangeEvent)) func() {
	return s.events.Subscribe(fn)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getBatch(ctx context.Context, q querier, id string) (models.Batch, error) {
	var doc string
	err := q.QueryRowContext(ctx, `SELECT document FROM batches WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Batch{}, fmt.Errorf("get batch %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return models.Batch{}, fmt.Errorf("loading batch: %w", err)
	}

	var batch models.Batch
	if err := json.Unmarshal([]byte(doc), &batch); err != nil {
		return models.Batch{}, fmt.Errorf("decoding batch: %w", err)
	}
	return batch, nil
}

func (s *Store) write(ctx context.Context, q querier, batch models.Batch) error {
	doc, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}

	res, err := q.ExecContext(ctx,
		`UPDATE batches SET start_date = ?, document = ? WHERE id = ?`,
		batch.StartDate, string(doc), batch.ID)
	if err != nil {
		return fmt.Errorf("updating batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) withinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Store) publish(kind repository.EventType, batch models.Batch) {
	snapshot := batch.Clone()
	s.events.Publish(repository.ChangeEvent{Type: kind, BatchID: batch.ID, Batch: &snapshot})
}
