package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"todolist/internal/models"
	"todolist/internal/view"
)

// viewResponse is the JSON form of a projected view.
type viewResponse struct {
	Filter         models.Filter   `json:"filter"`
	Items          []view.Summary  `json:"items"`
	ActiveCount    int             `json:"activeCount"`
	CompletedCount int             `json:"completedCount"`
	TotalCount     int             `json:"totalCount"`
	EmptyState     view.EmptyState `json:"emptyState"`
	ActiveLabel    string          `json:"activeLabel"`
	SaveError      string          `json:"saveError,omitempty"`
}

type createResponse struct {
	Task view.Summary `json:"task"`
	View viewResponse `json:"view"`
}

func (h *Handlers) viewResponse(f models.Filter) viewResponse {
	v := h.list.Project(f)
	resp := viewResponse{
		Filter:         v.Filter,
		Items:          v.Items,
		ActiveCount:    v.ActiveCount,
		CompletedCount: v.CompletedCount,
		TotalCount:     v.TotalCount,
		EmptyState:     v.EmptyState(),
		ActiveLabel:    view.ActiveLabel(v.ActiveCount),
	}
	if h.list.SaveErr() != nil {
		resp.SaveError = saveErrorMessage
	}
	return resp
}

// respondView sends the current view after a mutation, or redirects plain
// form posts back to the page.
func (h *Handlers) respondView(w http.ResponseWriter, r *http.Request, f models.Filter) {
	if wantsHTML(r) {
		redirectHome(w, r, f)
		return
	}
	respondJSON(w, http.StatusOK, h.viewResponse(f))
}

// ListTasks returns the task list under the requested filter.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.viewResponse(filter))
}

// CreateTask adds a task from a JSON body or a form field named text.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var text string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondError(w, http.StatusBadRequest, "invalid json")
			return
		}
		text = payload.Text
	} else {
		if err := r.ParseForm(); err != nil {
			respondError(w, http.StatusBadRequest, "invalid form data")
			return
		}
		text = r.FormValue("text")
	}

	task, ok := h.list.Add(ctx, text)

	if wantsHTML(r) {
		redirectHome(w, r, filter)
		return
	}
	if !ok {
		respondError(w, http.StatusBadRequest, models.ErrEmptyText.Error())
		return
	}

	respondJSON(w, http.StatusCreated, createResponse{
		Task: view.Summary{
			ID:        task.ID,
			Text:      task.Text,
			Completed: task.Completed,
			CreatedAt: task.CreatedAt,
		},
		View: h.viewResponse(filter),
	})
}

// ToggleTask flips the completion status of a task. Unknown ids are ignored.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	h.mutateByID(w, r, func(id string) { h.list.Toggle(r.Context(), id) })
}

// DeleteTask removes a task. Unknown ids are ignored.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.mutateByID(w, r, func(id string) { h.list.Remove(r.Context(), id) })
}

// ClearCompleted removes every completed task.
func (h *Handlers) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.list.ClearCompleted(r.Context())
	h.respondView(w, r, filter)
}

func (h *Handlers) mutateByID(w http.ResponseWriter, r *http.Request, mutate func(id string)) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	mutate(id)
	h.respondView(w, r, filter)
}
