// internal/tui/app.go
//
// Terminal front end for the todo list. It follows The Elm Architecture:
// key presses become messages, Update calls the task list mutators, and
// View redraws from a fresh projection of the list.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todolist/internal/models"
	"todolist/internal/view"
)

// TaskList is the task store the TUI drives.
type TaskList interface {
	Add(ctx context.Context, rawText string) (models.Task, bool)
	Toggle(ctx context.Context, id string) bool
	Remove(ctx context.Context, id string) bool
	ClearCompleted(ctx context.Context) int
	Project(f models.Filter) view.View
	SaveErr() error
}

// App is the bubbletea model.
type App struct {
	ctx    context.Context
	list   TaskList
	filter models.Filter
	cursor int
	adding bool
	status string

	input textinput.Model
	keys  keyMap
	help  help.Model

	width int
}

// New creates the TUI model over list.
func New(ctx context.Context, list TaskList) App {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 500
	input.Prompt = "› "

	return App{
		ctx:   ctx,
		list:  list,
		input: input,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, list TaskList) error {
	p := tea.NewProgram(New(ctx, list), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Filter returns the active filter.
func (a App) Filter() models.Filter {
	return a.filter
}

// Cursor returns the index of the highlighted item.
func (a App) Cursor() int {
	return a.cursor
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		a.input.Width = max(msg.Width-4, 10)
		return a, nil

	case tea.KeyMsg:
		if a.adding {
			return a.updateAdding(msg)
		}
		return a.updateBrowsing(msg)
	}

	return a, nil
}

func (a App) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Submit):
		if _, ok := a.list.Add(a.ctx, a.input.Value()); ok {
			a.status = ""
			a.cursor = 0
		} else {
			a.status = "Type something first"
		}
		a.input.Reset()
		return a, nil

	case key.Matches(msg, a.keys.Cancel):
		a.adding = false
		a.input.Blur()
		a.input.Reset()
		a.status = ""
		return a, nil

	case msg.Type == tea.KeyCtrlC:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.status = ""
	items := a.list.Project(a.filter).Items

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Add):
		a.adding = true
		return a, a.input.Focus()

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Toggle):
		if a.cursor < len(items) {
			a.list.Toggle(a.ctx, items[a.cursor].ID)
		}

	case key.Matches(msg, a.keys.Delete):
		if a.cursor < len(items) {
			a.list.Remove(a.ctx, items[a.cursor].ID)
		}

	case key.Matches(msg, a.keys.ClearCompleted):
		if n := a.list.ClearCompleted(a.ctx); n > 0 {
			a.status = fmt.Sprintf("Cleared %d completed", n)
		}

	case key.Matches(msg, a.keys.NextFilter):
		a.setFilter((a.filter + 1) % models.Filter(len(models.Filters())))

	case key.Matches(msg, a.keys.FilterAll):
		a.setFilter(models.FilterAll)

	case key.Matches(msg, a.keys.FilterActive):
		a.setFilter(models.FilterActive)

	case key.Matches(msg, a.keys.FilterCompleted):
		a.setFilter(models.FilterCompleted)

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}

	a.clampCursor()
	return a, nil
}

func (a *App) setFilter(f models.Filter) {
	a.filter = f
	a.cursor = 0
}

// clampCursor keeps the cursor on an item after the list shrinks.
func (a *App) clampCursor() {
	n := len(a.list.Project(a.filter).Items)
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// View implements tea.Model.
func (a App) View() string {
	v := a.list.Project(a.filter)
	var b strings.Builder

	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n")

	tabs := make([]string, 0, 3)
	for _, f := range models.Filters() {
		style := tabStyle
		if f == a.filter {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(f.String()))
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	if a.adding {
		b.WriteString(a.input.View())
		b.WriteString("\n\n")
	}

	if v.Empty() {
		b.WriteString(emptyStyle.Render(view.EmptyMessage(v.EmptyState())))
		b.WriteString("\n")
	}
	for i, item := range v.Items {
		pointer := "  "
		if i == a.cursor && !a.adding {
			pointer = cursorStyle.Render("> ")
		}
		check := "[ ]"
		text := item.Text
		if item.Completed {
			check = "[x]"
			text = doneStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s%s %s\n", pointer, check, text)
	}

	b.WriteString("\n")
	b.WriteString(countStyle.Render(view.ActiveLabel(v.ActiveCount)))
	b.WriteString("\n")

	if a.list.SaveErr() != nil {
		b.WriteString(warningStyle.Render("! changes are not being saved"))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(statusMsgStyle.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.adding {
		b.WriteString(a.help.View(inputKeyMap{a.keys}))
	} else {
		b.WriteString(a.help.View(a.keys))
	}

	return b.String()
}
