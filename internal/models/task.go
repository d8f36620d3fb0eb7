package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrEmptyText is returned when task text is empty after trimming.
var ErrEmptyText = errors.New("text is required")

// Task represents a single entry in the todo list.
type Task struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
}

// taskRecord is the persisted shape of a task. CreatedAt is stored as
// epoch milliseconds.
type taskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}

// NewTask builds an incomplete task from raw user input.
func NewTask(id, rawText string, now time.Time) (Task, error) {
	text, err := NormalizeText(rawText)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: TruncateMillis(now),
	}, nil
}

// NormalizeText replaces invalid UTF-8 with U+FFFD, trims surrounding
// whitespace and rejects empty text. The result encodes to JSON unchanged.
func NormalizeText(raw string) (string, error) {
	text := strings.TrimSpace(strings.ToValidUTF8(raw, "\uFFFD"))
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// TruncateMillis drops sub-millisecond precision and the monotonic clock
// reading so the time survives a persistence round trip unchanged.
func TruncateMillis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}

// Validate checks that the task has valid field values.
func (t Task) Validate() error {
	if t.ID == "" {
		return errors.New("id is required")
	}

	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}

	if strings.TrimSpace(t.Text) != t.Text {
		return errors.New("text must not have surrounding whitespace")
	}

	return nil
}

// Toggled returns a copy of the task with the completed flag flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// MarshalJSON encodes the task in its persisted form.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskRecord{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UnixMilli(),
	})
}

// UnmarshalJSON decodes a task from its persisted form.
func (t *Task) UnmarshalJSON(data []byte) error {
	var rec taskRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*t = Task{
		ID:        rec.ID,
		Text:      rec.Text,
		Completed: rec.Completed,
		CreatedAt: time.UnixMilli(rec.CreatedAt),
	}
	return nil
}
