package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"todolist/internal/config"
	"todolist/internal/models"
)

// FileStore implements the Store interface with one JSON file per slot.
// There is no caching: every Load reads the file and every Save rewrites
// it under an exclusive lock.
type FileStore struct {
	filePath string
}

// NewFileStore creates a file store for slot inside dir. If dir looks like a
// file path (it has an extension) its parent directory is used.
func NewFileStore(dir, slot string) (*FileStore, error) {
	if slot == "" {
		slot = config.DefaultSlot
	}
	if filepath.Ext(dir) != "" {
		dir = filepath.Dir(dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileStore{filePath: filepath.Join(dir, slot+".json")}, nil
}

// Path returns the file backing the slot.
func (s *FileStore) Path() string {
	return s.filePath
}

// Load reads the task list. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data []byte
	err = withLock(file, syscall.LOCK_SH, func() error {
		data, err = io.ReadAll(file)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Decode(data)
}

// Save truncates the file and writes the full task list.
func (s *FileStore) Save(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(tasks)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(s.filePath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return withLock(file, syscall.LOCK_EX, func() error {
		if err := file.Truncate(0); err != nil {
			return fmt.Errorf("failed to truncate file: %w", err)
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek: %w", err)
		}
		if _, err := file.Write(data); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return file.Sync()
	})
}

// Close is a no-op; files are opened per call.
func (s *FileStore) Close() error {
	return nil
}

func withLock(file *os.File, how int, fn func() error) error {
	if err := syscall.Flock(int(file.Fd()), how); err != nil {
		return fmt.Errorf("failed to lock file: %w", err)
	}
	defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN)

	return fn()
}
