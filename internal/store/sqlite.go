package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"todolist/internal/config"
	"todolist/internal/models"
)

// SQLiteStore implements the Store interface using SQLite. The task list is
// kept as one JSON value in the slots table, keyed by slot name.
type SQLiteStore struct {
	db   *sql.DB
	slot string
}

// NewSQLiteStore creates a new SQLite store with the given database path.
// An empty slot uses the default slot name.
func NewSQLiteStore(dbPath, slot string) (*SQLiteStore, error) {
	if slot == "" {
		slot = config.DefaultSlot
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db, slot: slot}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the task list from the store's slot.
func (s *SQLiteStore) Load(ctx context.Context) ([]models.Task, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.slot).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", s.slot, err)
	}

	return Decode([]byte(value))
}

// Save overwrites the store's slot with tasks.
func (s *SQLiteStore) Save(ctx context.Context, tasks []models.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.slot, string(data), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", s.slot, err)
	}

	return nil
}
