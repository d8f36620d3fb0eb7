package tui

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/models"
	"todolist/internal/store"
	"todolist/internal/todo"
)

func newTestApp(t *testing.T) (App, *todo.List) {
	t.Helper()
	list := todo.Open(context.Background(), store.NewMemoryStore(), todo.WithLogger(log.New(io.Discard, "", 0)))
	return New(context.Background(), list), list
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, app App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ := app.Update(msg)
		var ok bool
		app, ok = m.(App)
		require.True(t, ok, "Update returned %T", m)
	}
	return app
}

func typeText(t *testing.T, app App, text string) App {
	t.Helper()
	for _, r := range text {
		app = press(t, app, runes(string(r)))
	}
	return app
}

func TestAddTaskThroughInput(t *testing.T) {
	app, list := newTestApp(t)

	app = press(t, app, runes("a"))
	app = typeText(t, app, "buy milk")
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	tasks := list.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Text)

	app = typeText(t, app, "walk dog")
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, "walk dog", list.Tasks()[0].Text, "input stays open for the next task")
	assert.Contains(t, app.View(), "2 items left")
}

func TestBlankInputIsIgnored(t *testing.T) {
	app, list := newTestApp(t)

	app = press(t, app, runes("a"))
	app = typeText(t, app, "   ")
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, list.Tasks())
	assert.Contains(t, app.View(), "Type something first")
}

func TestToggleAndDeleteAtCursor(t *testing.T) {
	app, list := newTestApp(t)
	ctx := context.Background()
	list.Add(ctx, "older")
	list.Add(ctx, "newer")

	app = press(t, app, runes("j"), tea.KeyMsg{Type: tea.KeySpace})

	tasks := list.Tasks()
	assert.False(t, tasks[0].Completed)
	assert.True(t, tasks[1].Completed, "cursor was on the second item")

	app = press(t, app, runes("d"))
	assert.Equal(t, []string{"newer"}, []string{list.Tasks()[0].Text})
	assert.Len(t, list.Tasks(), 1)
	assert.Equal(t, 0, app.Cursor(), "cursor clamps to the remaining item")
}

func TestCursorBounds(t *testing.T) {
	app, list := newTestApp(t)
	list.Add(context.Background(), "only")

	app = press(t, app, runes("k"), runes("k"))
	assert.Equal(t, 0, app.Cursor())

	app = press(t, app, runes("j"), runes("j"))
	assert.Equal(t, 0, app.Cursor())
}

func TestFilterKeys(t *testing.T) {
	app, list := newTestApp(t)
	ctx := context.Background()
	done, _ := list.Add(ctx, "done task")
	list.Add(ctx, "open task")
	list.Toggle(ctx, done.ID)

	app = press(t, app, runes("3"))
	assert.Equal(t, models.FilterCompleted, app.Filter())
	assert.Contains(t, app.View(), "done task")
	assert.NotContains(t, app.View(), "open task")

	app = press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.FilterAll, app.Filter(), "tab wraps around")

	app = press(t, app, runes("2"))
	assert.Equal(t, models.FilterActive, app.Filter())
	assert.Contains(t, app.View(), "open task")
	assert.NotContains(t, app.View(), "done task")
}

func TestEmptyMessages(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Contains(t, app.View(), "No tasks yet")
	app = press(t, app, runes("2"))
	assert.Contains(t, app.View(), "No active tasks")
	app = press(t, app, runes("3"))
	assert.Contains(t, app.View(), "No completed tasks")
}

func TestClearCompletedKey(t *testing.T) {
	app, list := newTestApp(t)
	ctx := context.Background()
	a, _ := list.Add(ctx, "a")
	list.Add(ctx, "b")
	list.Toggle(ctx, a.ID)

	app = press(t, app, runes("C"))

	assert.Len(t, list.Tasks(), 1)
	assert.Contains(t, app.View(), "Cleared 1 completed")
}

func TestQuit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTypingQDoesNotQuit(t *testing.T) {
	app, list := newTestApp(t)

	app = press(t, app, runes("a"))
	_, cmd := app.Update(runes("q"))
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}

	app = typeText(t, app, "quiz")
	press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "quiz", list.Tasks()[0].Text)
}

type failingStore struct{ *store.MemoryStore }

func (failingStore) Save(context.Context, []models.Task) error { return errors.New("read-only") }

func TestSaveWarning(t *testing.T) {
	list := todo.Open(context.Background(), failingStore{store.NewMemoryStore()}, todo.WithLogger(log.New(io.Discard, "", 0)))
	app := New(context.Background(), list)

	list.Add(context.Background(), "unsaved")

	assert.Contains(t, app.View(), "changes are not being saved")
}
