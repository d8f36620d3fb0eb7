package handlers

import (
	"net/http"

	"todolist/internal/models"
	"todolist/internal/view"
)

// FilterTab is one entry of the filter bar.
type FilterTab struct {
	Name   string
	Active bool
}

// HomeData holds data for the home page template.
type HomeData struct {
	Title        string
	Filter       string
	Tabs         []FilterTab
	View         view.View
	ActiveLabel  string
	EmptyMessage string
	SaveError    string
}

// Home renders the task list filtered by the filter query parameter.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	// Unknown filters fall back to "all"
	filter, err := parseFilter(r)
	if err != nil {
		filter = models.FilterAll
	}

	v := h.list.Project(filter)

	tabs := make([]FilterTab, 0, 3)
	for _, f := range models.Filters() {
		tabs = append(tabs, FilterTab{Name: f.String(), Active: f == filter})
	}

	data := HomeData{
		Title:        "Todos",
		Filter:       filter.String(),
		Tabs:         tabs,
		View:         v,
		ActiveLabel:  view.ActiveLabel(v.ActiveCount),
		EmptyMessage: view.EmptyMessage(v.EmptyState()),
	}
	if h.list.SaveErr() != nil {
		data.SaveError = saveErrorMessage
	}

	h.render(w, "index.html", data)
}
