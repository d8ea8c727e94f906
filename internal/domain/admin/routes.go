package admin

import (
	"github.com/go-chi/chi/v5"
)

// AuthRoutes returns login and session routes.
func (h *Handler) AuthRoutes(jwtSvc *JWTService, adminSvc *Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSvc, adminSvc))
		r.Get("/me", h.Me)
	})

	return r
}

// ManagementRoutes returns account management routes, super-admin only.
func (h *Handler) ManagementRoutes(jwtSvc *JWTService, adminSvc *Service) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(jwtSvc, adminSvc))
	r.Use(RequirePermission(PermManageAdmins))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
	})

	return r
}
