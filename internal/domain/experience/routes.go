package experience

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the catalog routes used by the storefront.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Route("/{idOrSlug}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Get("/dates", h.BookableDates)
		r.Get("/slots", h.OpenSlots)
		r.Post("/quote", h.Quote)
	})

	return r
}

// AdminRoutes returns the back-office catalog routes.
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/images", h.UploadImage)
	})

	return r
}
