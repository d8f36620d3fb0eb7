package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"todolist/internal/models"
)

// ErrMalformed is returned when persisted data cannot be decoded as a task list.
var ErrMalformed = errors.New("malformed task data")

// Encode serializes the task list as a JSON array. A nil list encodes as [].
func Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of tasks. Blank input is an empty list.
func Decode(data []byte) ([]models.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if tasks == nil {
		// "null"
		tasks = []models.Task{}
	}
	return tasks, nil
}
