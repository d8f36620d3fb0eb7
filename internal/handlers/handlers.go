package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"

	"todolist/internal/models"
	"todolist/internal/view"
)

// saveErrorMessage is shown instead of the underlying save error, which stays
// in the server log.
const saveErrorMessage = "Changes could not be saved and will be lost when the app closes."

// TaskList is the task store the handlers drive.
type TaskList interface {
	Add(ctx context.Context, rawText string) (models.Task, bool)
	Toggle(ctx context.Context, id string) bool
	Remove(ctx context.Context, id string) bool
	ClearCompleted(ctx context.Context) int
	Project(f models.Filter) view.View
	SaveErr() error
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	list      TaskList
	templates *template.Template
}

// New creates a new Handlers instance.
func New(list TaskList, tmpl *template.Template) *Handlers {
	return &Handlers{
		list:      list,
		templates: tmpl,
	}
}

// parseFilter reads the filter query parameter.
func parseFilter(r *http.Request) (models.Filter, error) {
	return models.ParseFilter(r.URL.Query().Get("filter"))
}

// wantsHTML reports whether the request came from a plain HTML form, which
// expects a redirect back to the page instead of JSON.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html") &&
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func redirectHome(w http.ResponseWriter, r *http.Request, f models.Filter) {
	target := "/"
	if f != models.FilterAll {
		target += "?" + url.Values{"filter": {f.String()}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("internal server error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func respondJSON(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		respondServerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

// render executes the named template with data.
func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		respondServerError(w, err)
	}
}
