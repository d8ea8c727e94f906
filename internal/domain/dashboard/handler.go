package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanskriti-tours/sanskriti-api/internal/middleware"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates dashboard handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// AdminOverview handles GET /admin/dashboard
func (h *Handler) AdminOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.AdminOverview(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, overview)
}

// CustomerSummary handles GET /dashboard/summary
func (h *Handler) CustomerSummary(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetUserID(r.Context()).String()
	summary, err := h.svc.CustomerSummary(r.Context(), customerID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, summary)
}

// CustomerRoutes returns customer dashboard routes.
func (h *Handler) CustomerRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/summary", h.CustomerSummary)

	return r
}

// AdminRoutes returns back-office dashboard routes.
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.AdminOverview)

	return r
}
