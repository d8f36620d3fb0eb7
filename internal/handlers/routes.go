package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the chi router serving the page and the task API.
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Page routes
	r.Get("/", h.Home)

	// Task API routes
	r.Get("/api/todos", h.ListTasks)
	r.Post("/api/todos", h.CreateTask)
	r.Post("/api/todos/clear-completed", h.ClearCompleted)
	r.Post("/api/todos/{id}/toggle", h.ToggleTask)
	r.Delete("/api/todos/{id}", h.DeleteTask)
	// HTML forms cannot send DELETE
	r.Post("/api/todos/{id}/delete", h.DeleteTask)

	return r
}
