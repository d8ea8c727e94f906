package experience

import "time"

// AddOnInput for creating/updating add-ons as part of an experience
type AddOnInput struct {
	Name            string `json:"name" validate:"required,min=2,max=255"`
	Price           int64  `json:"price" validate:"gte=0"`
	CalculationType string `json:"calculation_type" validate:"required,calculation_type"`
	Active          bool   `json:"active"`
	Description     string `json:"description,omitempty"`
}

// TimeSlotInput for creating/updating a time slot
type TimeSlotInput struct {
	Time            string `json:"time" validate:"required,datetime=15:04"`
	BookingType     string `json:"booking_type" validate:"required,booking_type"`
	MaxCapacity     int    `json:"max_capacity" validate:"required,gte=1"`
	CurrentBookings int    `json:"current_bookings" validate:"gte=0"`
	Available       bool   `json:"available"`
}

// AvailabilityDayInput for one calendar date
type AvailabilityDayInput struct {
	Date  string          `json:"date" validate:"required,datetime=2006-01-02"`
	Slots []TimeSlotInput `json:"slots" validate:"dive"`
}

// CreateExperienceRequest is the full admin document for a new
// experience. The slug is derived from the title, never supplied.
type CreateExperienceRequest struct {
	Title            string                 `json:"title" validate:"required,min=3,max=255"`
	Category         string                 `json:"category" validate:"required,category"`
	Location         string                 `json:"location" validate:"required,min=2,max=255"`
	Duration         string                 `json:"duration,omitempty"`
	BasePrice        int64                  `json:"base_price" validate:"gte=0"`
	Rating           float64                `json:"rating" validate:"gte=0,lte=5"`
	ShortDescription string                 `json:"short_description,omitempty"`
	Description      string                 `json:"description,omitempty"`
	Images           []string               `json:"images,omitempty" validate:"dive,url"`
	Highlights       []string               `json:"highlights,omitempty"`
	Included         []string               `json:"included,omitempty"`
	Pricing          PricingConfig          `json:"pricing"`
	AddOns           []AddOnInput           `json:"add_ons,omitempty" validate:"dive"`
	Availability     []AvailabilityDayInput `json:"availability,omitempty" validate:"dive"`
}

// UpdateExperienceRequest mirrors the create document; the update
// replaces the stored document and regenerates the slug when the
// title changed.
type UpdateExperienceRequest = CreateExperienceRequest

// QuoteRequest asks for a price computation on the detail page.
type QuoteRequest struct {
	BookingType string           `json:"booking_type" validate:"required,booking_type"`
	Adults      int              `json:"adults" validate:"gte=0"`
	Kids        int              `json:"kids" validate:"gte=0"`
	GroupSize   int              `json:"group_size" validate:"gte=0"`
	AddOns      []AddOnSelection `json:"add_ons,omitempty"`
}

// ListItem is the catalog card: the detail-only fields are omitted.
type ListItem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Category  string   `json:"category"`
	Location  string   `json:"location"`
	Duration  string   `json:"duration"`
	BasePrice int64    `json:"base_price"`
	Rating    float64  `json:"rating"`
	Images    []string `json:"images"`
}

// ToListItem converts an experience to its catalog card.
func ToListItem(e *Experience) ListItem {
	return ListItem{
		ID:        e.ID.String(),
		Title:     e.Title,
		Slug:      e.Slug,
		Category:  e.Category,
		Location:  e.Location,
		Duration:  e.Duration,
		BasePrice: e.BasePrice,
		Rating:    e.Rating,
		Images:    e.Images,
	}
}

// DetailResponse is the full experience document with inactive
// add-ons stripped for customers.
type DetailResponse struct {
	*Experience
	AddOns []AddOn `json:"add_ons"`
}

// ToDetailResponse builds the customer-facing detail document.
func ToDetailResponse(e *Experience) *DetailResponse {
	return &DetailResponse{
		Experience: e,
		AddOns:     e.ActiveAddOns(),
	}
}

// ImageUploadedResponse acknowledges an admin image upload.
type ImageUploadedResponse struct {
	ImageID string    `json:"image_id"`
	URL     string    `json:"url"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}
