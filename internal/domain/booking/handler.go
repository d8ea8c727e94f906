package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
	"github.com/sanskriti-tours/sanskriti-api/internal/middleware"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/response"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates booking handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /bookings (customer)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customerID := middleware.GetUserID(r.Context()).String()
	b, err := h.svc.Create(r.Context(), customerID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, &BookingCreatedResponse{
		BookingID:  b.ID.String(),
		Reference:  b.Reference,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
	})
}

// ListMine handles GET /bookings/my (customer)
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetUserID(r.Context()).String()
	bookings, err := h.svc.ListMine(r.Context(), customerID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, bookings)
}

// GetMine handles GET /bookings/{id} (customer, own booking only)
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	customerID := middleware.GetUserID(r.Context()).String()
	b, err := h.svc.GetByID(r.Context(), id, customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, b)
}

// GetByReference handles GET /bookings/ref/{reference} (public). The
// reference itself is the lookup capability.
func (h *Handler) GetByReference(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, b)
}

// CancelMine handles POST /bookings/{id}/cancel (customer)
func (h *Handler) CancelMine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	customerID := middleware.GetUserID(r.Context()).String()
	b, err := h.svc.CancelOwn(r.Context(), id, customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, b)
}

// List handles GET /admin/bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		Status: Status(r.URL.Query().Get("status")),
		Date:   r.URL.Query().Get("date"),
		Limit:  50,
	}
	if f.Status != "" && !f.Status.Valid() {
		response.BadRequest(w, "Unknown booking status")
		return
	}
	if expID := r.URL.Query().Get("experience_id"); expID != "" {
		id, err := uuid.Parse(expID)
		if err != nil {
			response.BadRequest(w, "Invalid experience ID")
			return
		}
		f.ExperienceID = id
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			f.Limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			f.Offset = v
		}
	}

	bookings, total, err := h.svc.List(r.Context(), f)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.WithMeta(w, bookings, response.Meta{Total: total, Limit: f.Limit, Offset: f.Offset})
}

// Get handles GET /admin/bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.svc.GetByID(r.Context(), id, "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, b)
}

// UpdateStatus handles PATCH /admin/bookings/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.svc.UpdateStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, b)
}

// Stats handles GET /admin/bookings/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, stats)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, experience.ErrNotFound):
		response.NotFound(w, "Experience not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "Booking belongs to another customer")
	case errors.Is(err, ErrSlotUnavailable):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, err.Error())
	case errors.Is(err, experience.ErrInvalidBookingType),
		errors.Is(err, experience.ErrInvalidGuestCount),
		errors.Is(err, experience.ErrInvalidGroupSize),
		errors.Is(err, experience.ErrInvalidDate),
		errors.Is(err, experience.ErrInvalidTime):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}
