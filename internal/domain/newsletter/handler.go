package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/response"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/validator"
)

// SubscribeRequest is the footer signup payload.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Service handles newsletter business logic
type Service struct {
	repo Repository
}

// NewService creates newsletter service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subscribe adds or reactivates a subscriber. Subscribing twice is
// not an error; the storefront shows the same confirmation either way.
func (s *Service) Subscribe(ctx context.Context, email string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	sub, created, err := s.repo.Upsert(ctx, email)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info().Str("email", email).Msg("Newsletter subscription added")
	}
	return sub, nil
}

// Unsubscribe deactivates a subscriber.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	return s.repo.Deactivate(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// List returns subscribers for the back office.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Subscriber, error) {
	return s.repo.List(ctx, activeOnly)
}

// CountActive returns the active subscriber count.
func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
}

// Handler handles newsletter HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates newsletter handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Subscribe handles POST /newsletter/subscribe (public)
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sub, err := h.svc.Subscribe(r.Context(), req.Email)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, sub)
}

// Unsubscribe handles POST /newsletter/unsubscribe (public)
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := validator.ValidateVar(req.Email, "required,email"); err != nil {
		response.BadRequest(w, "Invalid email address")
		return
	}

	if err := h.svc.Unsubscribe(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrNotSubscribed) {
			response.NotFound(w, "Email is not subscribed")
			return
		}
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// List handles GET /admin/newsletter
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	subs, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, subs)
}
