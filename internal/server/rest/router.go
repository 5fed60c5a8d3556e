package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the REST routing tree.
//
//	GET  /                    banner
//	POST /auth/register
//	POST /auth/login
//	GET  /auth/profile        guarded
//	     /api/notes/...       guarded
func NewRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		message(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		message(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	guard := Guard(h.users, h.logger, h.storeTimeout)

	r.Get("/", h.Banner)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(guard).Get("/profile", h.Profile)
	})

	r.Route("/api/notes", func(r chi.Router) {
		r.Use(guard)

		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/tags", h.NoteTags)
		if h.exporter != nil {
			r.Post("/export", h.ExportNotes)
		}

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetNote)
			r.Put("/", h.ReplaceNote)
			r.Patch("/", h.PatchNote)
			r.Delete("/", h.DeleteNote)
		})
	})

	return r
}
