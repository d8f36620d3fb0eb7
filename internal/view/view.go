// Package view derives what a presentation should draw from a task list.
//
// Project is pure: it never mutates its input and returns the same View for
// the same arguments.
package view

import (
	"encoding/json"
	"fmt"
	"time"

	"todolist/internal/models"
)

// EmptyState says why a projected view has no items.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoTasks
	EmptyNoActive
	EmptyNoCompleted
)

func (e EmptyState) String() string {
	switch e {
	case EmptyNoTasks:
		return "no-tasks"
	case EmptyNoActive:
		return "no-active"
	case EmptyNoCompleted:
		return "no-completed"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e EmptyState) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *EmptyState) UnmarshalText(text []byte) error {
	for _, candidate := range []EmptyState{EmptyNone, EmptyNoTasks, EmptyNoActive, EmptyNoCompleted} {
		if candidate.String() == string(text) {
			*e = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown empty state %q", text)
}

// Summary is the renderable form of a task. Its JSON form matches the
// persisted task record, with createdAt in epoch milliseconds.
type Summary struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
}

type summaryRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}

// MarshalJSON implements json.Marshaler.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryRecord{
		ID:        s.ID,
		Text:      s.Text,
		Completed: s.Completed,
		CreatedAt: s.CreatedAt.UnixMilli(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var rec summaryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*s = Summary{
		ID:        rec.ID,
		Text:      rec.Text,
		Completed: rec.Completed,
		CreatedAt: time.UnixMilli(rec.CreatedAt),
	}
	return nil
}

// View is a filtered projection of the task list.
type View struct {
	Filter models.Filter `json:"filter"`
	Items  []Summary     `json:"items"`
	// Counts cover the whole list, not just Items.
	ActiveCount    int `json:"activeCount"`
	CompletedCount int `json:"completedCount"`
	TotalCount     int `json:"totalCount"`
}

// Project filters tasks and counts incomplete ones. Item order follows tasks.
func Project(tasks []models.Task, f models.Filter) View {
	v := View{
		Filter:     f,
		Items:      make([]Summary, 0, len(tasks)),
		TotalCount: len(tasks),
	}

	for _, t := range tasks {
		if t.Completed {
			v.CompletedCount++
		} else {
			v.ActiveCount++
		}

		if !f.Matches(t) {
			continue
		}
		v.Items = append(v.Items, Summary{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt,
		})
	}

	return v
}

// Empty reports whether the filter matched nothing.
func (v View) Empty() bool {
	return len(v.Items) == 0
}

// EmptyState reports which filter produced an empty view.
func (v View) EmptyState() EmptyState {
	if !v.Empty() {
		return EmptyNone
	}
	switch v.Filter {
	case models.FilterActive:
		return EmptyNoActive
	case models.FilterCompleted:
		return EmptyNoCompleted
	default:
		return EmptyNoTasks
	}
}

// EmptyMessage is the text shown in place of an empty list.
func EmptyMessage(e EmptyState) string {
	switch e {
	case EmptyNoTasks:
		return "No tasks yet"
	case EmptyNoActive:
		return "No active tasks"
	case EmptyNoCompleted:
		return "No completed tasks"
	default:
		return ""
	}
}

// ActiveLabel formats the incomplete task count.
func ActiveLabel(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}
