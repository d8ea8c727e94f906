package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
)

// Status of a booking through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// canTransition encodes the allowed status moves. Completed and
// cancelled are terminal.
func canTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// AddOnLine is a priced add-on snapshot frozen at booking time, so
// later catalog edits never change what the customer agreed to pay.
type AddOnLine struct {
	AddOnID  uuid.UUID `json:"add_on_id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
	Cost     int64     `json:"cost"`
}

// Booking is a confirmed-or-pending reservation of one time slot.
// Prices are server-computed and stored in whole rupees.
type Booking struct {
	ID              uuid.UUID              `db:"id" json:"id"`
	Reference       string                 `db:"reference" json:"reference"`
	ExperienceID    uuid.UUID              `db:"experience_id" json:"experience_id"`
	ExperienceTitle string                 `db:"experience_title" json:"experience_title"`
	SlotID          uuid.UUID              `db:"slot_id" json:"-"`
	CustomerID      string                 `db:"customer_id" json:"-"`
	CustomerName    string                 `db:"customer_name" json:"customer_name"`
	CustomerEmail   string                 `db:"customer_email" json:"customer_email"`
	CustomerPhone   string                 `db:"customer_phone" json:"customer_phone"`
	BookingType     experience.BookingType `db:"booking_type" json:"booking_type"`
	Date            string                 `db:"booking_date" json:"date"` // "2006-01-02"
	Time            string                 `db:"booking_time" json:"time"` // "15:04"
	Adults          int                    `db:"adults" json:"adults"`
	Kids            int                    `db:"kids" json:"kids"`
	GroupSize       int                    `db:"group_size" json:"group_size"`
	AddOns          []AddOnLine            `db:"-" json:"add_ons"`
	BasePrice       int64                  `db:"base_price" json:"base_price"`
	AddOnsCost      int64                  `db:"add_ons_cost" json:"add_ons_cost"`
	TotalPrice      int64                  `db:"total_price" json:"total_price"`
	Status          Status                 `db:"status" json:"status"`
	SpecialRequests string                 `db:"special_requests" json:"special_requests,omitempty"`
	CreatedAt       time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time              `db:"updated_at" json:"updated_at"`
}
