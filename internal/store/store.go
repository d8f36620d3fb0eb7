package store

import (
	"context"
	"fmt"
	"strings"

	"todolist/internal/config"
	"todolist/internal/models"
)

// Store defines the interface for persisting the task list. The whole list
// lives in a single slot and is rewritten on every save.
type Store interface {
	// Load returns the saved list. A missing slot yields an empty list and
	// unparseable content yields an error wrapping ErrMalformed.
	Load(ctx context.Context) ([]models.Task, error)
	// Save replaces the slot with tasks.
	Save(ctx context.Context, tasks []models.Task) error

	// Lifecycle
	Close() error
}

// New opens the backend selected by cfg.
func New(cfg config.Storage) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.Path, cfg.Slot)
	case config.BackendFile:
		return NewFileStore(cfg.Path, cfg.Slot)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
