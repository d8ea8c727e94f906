package experience

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/slug"
	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/storage"
)

// Service handles experience business logic: catalog CRUD, pricing
// quotes and availability lookups.
type Service struct {
	repo  Repository
	store storage.ImageStore
}

// NewService creates experience service
func NewService(repo Repository, store storage.ImageStore) *Service {
	return &Service{repo: repo, store: store}
}

// List returns the catalog, optionally filtered by category/location.
func (s *Service) List(ctx context.Context, f Filter) ([]*Experience, error) {
	return s.repo.List(ctx, f)
}

// Get resolves an experience by UUID or by slug. Detail pages link by
// slug; the admin panel links by ID.
func (s *Service) Get(ctx context.Context, idOrSlug string) (*Experience, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.GetBySlug(ctx, idOrSlug)
}

// Create builds a new experience from the admin document.
func (s *Service) Create(ctx context.Context, req *CreateExperienceRequest) (*Experience, error) {
	now := time.Now()
	exp := &Experience{
		ID:        uuid.New(),
		Slug:      slug.Make(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyDocument(exp, req)

	if err := s.repo.Create(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// Update replaces the stored document. The slug is regenerated when
// the title changed, so old links may break after a rename.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateExperienceRequest) (*Experience, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != exp.Title {
		exp.Slug = slug.Make(req.Title)
	}
	applyDocument(exp, req)
	exp.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// Delete removes an experience and its calendar.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Quote computes the price for a prospective booking against the
// experience's current pricing document.
func (s *Service) Quote(ctx context.Context, idOrSlug string, req *QuoteRequest) (Quote, error) {
	exp, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return Quote{}, err
	}

	return ComputePrice(
		exp.Pricing,
		BookingType(req.BookingType),
		Guests{Adults: req.Adults, Kids: req.Kids},
		req.GroupSize,
		req.AddOns,
		exp.AddOns,
	)
}

// BookableDates returns the dates with at least one open slot for the
// given booking type.
func (s *Service) BookableDates(ctx context.Context, idOrSlug string, bt BookingType) ([]string, error) {
	if !bt.Valid() {
		return nil, ErrInvalidBookingType
	}
	exp, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	return ListBookableDates(exp.Availability, bt)
}

// OpenSlots returns the open slots for a date and booking type.
func (s *Service) OpenSlots(ctx context.Context, idOrSlug, date string, bt BookingType) ([]OpenSlot, error) {
	if !bt.Valid() {
		return nil, ErrInvalidBookingType
	}
	exp, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	return ListOpenSlots(exp.Availability, date, bt)
}

// UploadImage stores an original photo and records it for the resize
// worker. The experience gallery gets the original URL immediately;
// thumbnails appear once the worker has processed the row.
func (s *Service) UploadImage(ctx context.Context, expID uuid.UUID, filename, contentType string, data []byte) (*Image, error) {
	exp, err := s.repo.GetByID(ctx, expID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	img := &Image{
		ID:            uuid.New(),
		ExperienceID:  exp.ID,
		ObjectKey:     fmt.Sprintf("experiences/%s/%s%s", exp.ID, uuid.New(), ext),
		ProcessStatus: ImageStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.store.Put(ctx, img.ObjectKey, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	img.URL = s.store.URL(img.ObjectKey)

	if err := s.repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// applyDocument copies the request document onto the entity. IDs of
// nested rows are reassigned by the repository layer.
func applyDocument(exp *Experience, req *CreateExperienceRequest) {
	exp.Title = req.Title
	exp.Category = req.Category
	exp.Location = req.Location
	exp.Duration = req.Duration
	exp.BasePrice = req.BasePrice
	exp.Rating = req.Rating
	exp.ShortDescription = req.ShortDescription
	exp.Description = req.Description
	exp.Images = req.Images
	exp.Highlights = req.Highlights
	exp.Included = req.Included
	exp.Pricing = req.Pricing

	exp.AddOns = make([]AddOn, 0, len(req.AddOns))
	for _, a := range req.AddOns {
		exp.AddOns = append(exp.AddOns, AddOn{
			ID:              uuid.New(),
			ExperienceID:    exp.ID,
			Name:            a.Name,
			Price:           a.Price,
			CalculationType: CalculationType(a.CalculationType),
			Active:          a.Active,
			Description:     a.Description,
		})
	}

	exp.Availability = make([]AvailabilityDay, 0, len(req.Availability))
	for _, d := range req.Availability {
		day := AvailabilityDay{
			ID:           uuid.New(),
			ExperienceID: exp.ID,
			Date:         d.Date,
			Slots:        make([]TimeSlot, 0, len(d.Slots)),
		}
		for _, sl := range d.Slots {
			day.Slots = append(day.Slots, TimeSlot{
				ID:              uuid.New(),
				DayID:           day.ID,
				Time:            sl.Time,
				BookingType:     BookingType(sl.BookingType),
				MaxCapacity:     sl.MaxCapacity,
				CurrentBookings: sl.CurrentBookings,
				Available:       sl.Available,
			})
		}
		exp.Availability = append(exp.Availability, day)
	}
}
