package newsletter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the footer signup routes.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/subscribe", h.Subscribe)
	r.Post("/unsubscribe", h.Unsubscribe)

	return r
}

// AdminRoutes returns the back-office subscriber routes.
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)

	return r
}
