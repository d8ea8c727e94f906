package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/response"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/validator"
)

// Handler handles admin HTTP requests
type Handler struct {
	svc    *Service
	jwtSvc *JWTService
}

// NewHandler creates admin handler
func NewHandler(svc *Service, jwtSvc *JWTService) *Handler {
	return &Handler{svc: svc, jwtSvc: jwtSvc}
}

// Login handles POST /admin/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid email or password")
		case errors.Is(err, ErrAdminInactive):
			response.Forbidden(w, "Account is inactive")
		default:
			response.InternalError(w)
		}
		return
	}

	token, err := h.jwtSvc.GenerateToken(a)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, &LoginResponse{Token: token, Admin: a})
}

// Me handles GET /admin/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAdminByID(r.Context(), GetAdminID(r.Context()))
	if err != nil {
		response.NotFound(w, "Admin not found")
		return
	}
	response.OK(w, a)
}

// List handles GET /admin/admins
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, admins)
}

// Create handles POST /admin/admins
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.svc.Create(r.Context(), GetAdminRole(r.Context()), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, a)
}

// Update handles PATCH /admin/admins/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid admin ID")
		return
	}

	var req UpdateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.svc.Update(r.Context(), GetAdminID(r.Context()), GetAdminRole(r.Context()), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, a)
}

// Delete handles DELETE /admin/admins/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid admin ID")
		return
	}

	if err := h.svc.Delete(r.Context(), GetAdminID(r.Context()), GetAdminRole(r.Context()), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAdminNotFound):
		response.NotFound(w, "Admin not found")
	case errors.Is(err, ErrEmailTaken):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrCannotManageRole), errors.Is(err, ErrCannotDeleteSelf):
		response.Forbidden(w, err.Error())
	default:
		response.InternalError(w)
	}
}
