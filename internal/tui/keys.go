package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up              key.Binding
	Down            key.Binding
	Add             key.Binding
	Toggle          key.Binding
	Delete          key.Binding
	ClearCompleted  key.Binding
	NextFilter      key.Binding
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	Help            key.Binding
	Quit            key.Binding

	// Only active while typing a new task.
	Submit key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:              key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:            key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:             key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "add")),
		Toggle:          key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:          key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ClearCompleted:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		NextFilter:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		FilterAll:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterActive:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterCompleted: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Cancel:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.NextFilter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Toggle, k.Delete},
		{k.ClearCompleted, k.NextFilter, k.FilterAll, k.FilterActive, k.FilterCompleted},
		{k.Help, k.Quit},
	}
}

// inputKeyMap is the help shown while the input is focused.
type inputKeyMap struct {
	keyMap
}

func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
