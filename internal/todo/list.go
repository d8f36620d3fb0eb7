// Package todo owns the task list and keeps its persisted copy current.
//
// A List is the only mutator of task state. Every mutator replaces the
// in-memory list and then saves the whole list before returning, including
// calls that change nothing. Save
// failures are logged and remembered but never undo or fail the mutation:
// the in-memory list stays authoritative for the session.
package todo

import (
	"context"
	"log"
	"sync"
	"time"

	"todolist/internal/idgen"
	"todolist/internal/models"
	"todolist/internal/store"
	"todolist/internal/view"
)

// maxIDAttempts bounds regeneration when a fresh id collides.
const maxIDAttempts = 8

// List is the ordered, newest-first task collection.
type List struct {
	mu      sync.Mutex
	tasks   []models.Task
	store   store.Store
	newID   func() string
	now     func() time.Time
	logger  *log.Logger
	saveErr error
}

// Option customizes a List.
type Option func(*List)

// WithIDGenerator overrides the id source.
func WithIDGenerator(fn func() string) Option {
	return func(l *List) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(l *List) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger for load and save problems.
func WithLogger(logger *log.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Open loads the saved list from s. Unreadable or malformed data yields an
// empty list; the problem is logged, not returned.
func Open(ctx context.Context, s store.Store, opts ...Option) *List {
	l := &List{
		store:  s,
		newID:  idgen.New,
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	tasks, err := s.Load(ctx)
	if err != nil {
		l.logger.Printf("todo: load failed, starting with an empty list: %v", err)
		tasks = nil
	}
	l.tasks = l.sanitize(tasks)

	return l
}

// sanitize drops entries that fail Validate or repeat an id.
func (l *List) sanitize(tasks []models.Task) []models.Task {
	clean := make([]models.Task, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))

	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			l.logger.Printf("todo: dropping stored task %d: %v", i, err)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			l.logger.Printf("todo: dropping stored task %d: duplicate id %q", i, t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		clean = append(clean, t)
	}

	return clean
}

// Add trims rawText and prepends a new incomplete task. Blank text is
// ignored and reported with ok=false.
func (l *List) Add(ctx context.Context, rawText string) (task models.Task, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	text, err := models.NormalizeText(rawText)
	if err != nil {
		return models.Task{}, false
	}

	id, unique := l.uniqueID()
	if !unique {
		l.logger.Printf("todo: no unused id after %d attempts, task not added", maxIDAttempts)
		return models.Task{}, false
	}

	task, err = models.NewTask(id, text, l.now())
	if err != nil {
		return models.Task{}, false
	}

	next := make([]models.Task, 0, len(l.tasks)+1)
	next = append(next, task)
	next = append(next, l.tasks...)
	l.commit(ctx, next)

	return task, true
}

// Toggle flips the completed flag of the task with id. Unknown ids leave
// the list unchanged and return false; the list is saved either way.
func (l *List) Toggle(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		l.commit(ctx, l.tasks)
		return false
	}

	next := make([]models.Task, len(l.tasks))
	copy(next, l.tasks)
	next[i] = next[i].Toggled()
	l.commit(ctx, next)

	return true
}

// Remove deletes the task with id. Unknown ids leave the list unchanged and
// return false; the list is saved either way.
func (l *List) Remove(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		l.commit(ctx, l.tasks)
		return false
	}

	next := make([]models.Task, 0, len(l.tasks)-1)
	next = append(next, l.tasks[:i]...)
	next = append(next, l.tasks[i+1:]...)
	l.commit(ctx, next)

	return true
}

// ClearCompleted removes every completed task and returns how many were
// removed. The list is saved even when nothing changed.
func (l *List) ClearCompleted(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]models.Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if !t.Completed {
			next = append(next, t)
		}
	}
	removed := len(l.tasks) - len(next)
	l.commit(ctx, next)

	return removed
}

// Tasks returns a copy of the list, newest first.
func (l *List) Tasks() []models.Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Project returns the view of the current list under filter f.
func (l *List) Project(f models.Filter) view.View {
	return view.Project(l.Tasks(), f)
}

// SaveErr returns the error from the most recent save, or nil if it succeeded.
func (l *List) SaveErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveErr
}

// commit installs next as the current list and persists it. Callers hold mu.
// The save ignores cancellation of ctx so an abandoned caller cannot leave
// the persisted list behind the in-memory one.
func (l *List) commit(ctx context.Context, next []models.Task) {
	l.tasks = next

	l.saveErr = l.store.Save(context.WithoutCancel(ctx), next)
	if l.saveErr != nil {
		l.logger.Printf("todo: save failed, changes kept in memory only: %v", l.saveErr)
	}
}

func (l *List) indexOf(id string) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids until one is unused. Callers hold mu.
func (l *List) uniqueID() (string, bool) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := l.newID()
		if id != "" && l.indexOf(id) < 0 {
			return id, true
		}
	}
	return "", false
}
