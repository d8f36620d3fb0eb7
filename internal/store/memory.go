package store

import (
	"context"
	"sync"

	"todolist/internal/models"
)

// MemoryStore keeps the encoded task list in process memory. Nothing
// survives the process; it backs throwaway sessions and tests.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore returns an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWithData returns a memory store whose slot holds raw data,
// which need not be valid.
func NewMemoryStoreWithData(data []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...)}
}

// Load decodes the stored bytes.
func (s *MemoryStore) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return Decode(s.data)
}

// Save replaces the stored bytes.
func (s *MemoryStore) Save(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(tasks)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Bytes returns a copy of the stored bytes.
func (s *MemoryStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
