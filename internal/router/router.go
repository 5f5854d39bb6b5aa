// Package router sets up all HTTP routes and middleware chains for the
// profile pages API. Document mutations are routed through the lock
// middleware so template-derived pages cannot be edited directly.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"profilepages/internal/handlers"
	"profilepages/internal/middleware"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Profiles  *handlers.Profiles
	Templates *handlers.Templates
	Documents *handlers.Documents
	Admin     *handlers.Admin
	Public    *handlers.Public
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(h Handlers, lock middleware.LockChecker) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)
	r.Get("/p/{id}", h.Public.Page)

	r.Route("/api", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.Profiles.List)
			r.Post("/", h.Profiles.Create)
			r.Get("/{id}", h.Profiles.Get)
			r.Get("/{id}/documents", h.Profiles.Documents)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.Templates.List)
			r.Post("/", h.Templates.Create)
			r.Get("/{id}", h.Templates.Get)
			r.Put("/{id}", h.Templates.Update)
			r.Post("/{id}/sync", h.Templates.Sync)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.Documents.List)
			r.Post("/", h.Documents.Create)
			r.Get("/{id}", h.Documents.Get)

			// Mutations of a single page pass the lock gate first.
			r.Group(func(r chi.Router) {
				r.Use(middleware.DocumentLock(lock))
				r.Put("/{id}", h.Documents.Replace)
				r.Patch("/{id}", h.Documents.Patch)
				r.Delete("/{id}", h.Documents.Delete)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/reconcile", h.Admin.Reconcile)
			r.Get("/events", h.Admin.Events)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
