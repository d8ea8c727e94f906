package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CustomerRoutes returns the storefront booking routes. The reference
// lookup backing the confirmation page is public; everything else
// requires a valid customer token.
func (h *Handler) CustomerRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/ref/{reference}", h.GetByReference)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/", h.Create)
		r.Get("/my", h.ListMine)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetMine)
			r.Post("/cancel", h.CancelMine)
		})
	})

	return r
}

// AdminRoutes returns the back-office booking routes.
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/stats", h.Stats)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/status", h.UpdateStatus)
	})

	return r
}
