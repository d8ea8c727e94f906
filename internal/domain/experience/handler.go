package experience

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/response"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/validator"
)

const maxImageUploadBytes = 10 << 20 // 10 MB

// Handler handles experience HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates experience handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /experiences (public)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		Category: r.URL.Query().Get("category"),
		Location: r.URL.Query().Get("location"),
	}

	experiences, err := h.svc.List(r.Context(), f)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]ListItem, 0, len(experiences))
	for _, exp := range experiences {
		items = append(items, ToListItem(exp))
	}
	response.OK(w, items)
}

// Get handles GET /experiences/{idOrSlug} (public)
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	exp, err := h.svc.Get(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, ToDetailResponse(exp))
}

// BookableDates handles GET /experiences/{idOrSlug}/dates?booking_type=shared
func (h *Handler) BookableDates(w http.ResponseWriter, r *http.Request) {
	bt := BookingType(r.URL.Query().Get("booking_type"))
	dates, err := h.svc.BookableDates(r.Context(), chi.URLParam(r, "idOrSlug"), bt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, dates)
}

// OpenSlots handles GET /experiences/{idOrSlug}/slots?date=...&booking_type=...
func (h *Handler) OpenSlots(w http.ResponseWriter, r *http.Request) {
	bt := BookingType(r.URL.Query().Get("booking_type"))
	date := r.URL.Query().Get("date")

	slots, err := h.svc.OpenSlots(r.Context(), chi.URLParam(r, "idOrSlug"), date, bt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, slots)
}

// Quote handles POST /experiences/{idOrSlug}/quote (public)
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	quote, err := h.svc.Quote(r.Context(), chi.URLParam(r, "idOrSlug"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, quote)
}

// Create handles POST /admin/experiences
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	exp, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, exp)
}

// Update handles PUT /admin/experiences/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid experience ID")
		return
	}

	var req UpdateExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	exp, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, exp)
}

// Delete handles DELETE /admin/experiences/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid experience ID")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// UploadImage handles POST /admin/experiences/{id}/images (multipart)
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid experience ID")
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
	if err != nil {
		response.InternalError(w)
		return
	}

	img, err := h.svc.UploadImage(r.Context(), id, header.Filename,
		header.Header.Get("Content-Type"), data)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, &ImageUploadedResponse{
		ImageID: img.ID.String(),
		URL:     img.URL,
		Status:  img.ProcessStatus,
		At:      img.CreatedAt,
	})
}

// writeError maps domain errors to HTTP responses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Experience not found")
	case errors.Is(err, ErrSlugTaken):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidBookingType),
		errors.Is(err, ErrInvalidGuestCount),
		errors.Is(err, ErrInvalidGroupSize),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidTime):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}
