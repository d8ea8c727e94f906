package booking

import "github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"

// CreateBookingRequest is the storefront checkout payload. The quoted
// price never travels with it; the server recomputes from the catalog.
type CreateBookingRequest struct {
	ExperienceID    string                      `json:"experience_id" validate:"required,uuid"`
	BookingType     string                      `json:"booking_type" validate:"required,booking_type"`
	Date            string                      `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string                      `json:"time" validate:"required,datetime=15:04"`
	Adults          int                         `json:"adults" validate:"gte=0"`
	Kids            int                         `json:"kids" validate:"gte=0"`
	GroupSize       int                         `json:"group_size" validate:"gte=0"`
	AddOns          []experience.AddOnSelection `json:"add_ons,omitempty"`
	CustomerName    string                      `json:"customer_name" validate:"required,min=2,max=255"`
	CustomerEmail   string                      `json:"customer_email" validate:"required,email"`
	CustomerPhone   string                      `json:"customer_phone,omitempty" validate:"omitempty,min=5,max=32"`
	SpecialRequests string                      `json:"special_requests,omitempty" validate:"max=2000"`
}

// UpdateStatusRequest moves a booking through its lifecycle (admin).
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}

// BookingCreatedResponse acknowledges a checkout.
type BookingCreatedResponse struct {
	BookingID  string `json:"booking_id"`
	Reference  string `json:"reference"`
	TotalPrice int64  `json:"total_price"`
	Status     string `json:"status"`
}

// StatsResponse summarizes bookings for the admin dashboard.
type StatsResponse struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	Revenue   int64          `json:"revenue"`
	TopTitles []TitleCount   `json:"top_experiences"`
}

// TitleCount pairs an experience title with its booking count.
type TitleCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}
