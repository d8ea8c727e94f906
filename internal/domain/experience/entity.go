package experience

import (
	"time"

	"github.com/google/uuid"
)

// BookingType determines which pricing rule and which availability
// slots apply to a booking.
type BookingType string

const (
	BookingPrivate BookingType = "private"
	BookingShared  BookingType = "shared"
	BookingGroup   BookingType = "group"
)

// Valid reports whether bt is one of the known booking types.
func (bt BookingType) Valid() bool {
	switch bt {
	case BookingPrivate, BookingShared, BookingGroup:
		return true
	}
	return false
}

// CalculationType selects the pricing rule for an add-on.
type CalculationType string

const (
	CalcFlat           CalculationType = "flat"
	CalcPerPerson      CalculationType = "per_person"
	CalcPerAdult       CalculationType = "per_adult"
	CalcPerThreeGuests CalculationType = "per_3_guests"
)

// PrivatePricing prices a private tour: the first adult pays a higher
// rate, each additional adult and each child pays their own rate.
type PrivatePricing struct {
	Enabled              bool  `json:"enabled"`
	FirstAdultPrice      int64 `json:"first_adult_price"`
	AdditionalAdultPrice int64 `json:"additional_adult_price"`
	ChildPrice           int64 `json:"child_price"`
}

// SharedPricing prices a shared (join-in) tour per guest.
type SharedPricing struct {
	Enabled    bool  `json:"enabled"`
	AdultPrice int64 `json:"adult_price"`
	ChildPrice int64 `json:"child_price"`
}

// GroupTier is a group-size band with its own per-person price.
type GroupTier struct {
	MinSize        int   `json:"min_size"`
	MaxSize        int   `json:"max_size"`
	PricePerPerson int64 `json:"price_per_person"`
}

// Contains reports whether size falls inside the tier's band.
func (t GroupTier) Contains(size int) bool {
	return size >= t.MinSize && size <= t.MaxSize
}

// GroupPricing prices a group booking with two capacity tiers.
// Tier2 covers larger groups at a lower per-person rate.
type GroupPricing struct {
	Enabled bool      `json:"enabled"`
	Tier1   GroupTier `json:"tier1"`
	Tier2   GroupTier `json:"tier2"`
}

// PricingConfig holds the three independently enabled pricing modes
// attached to one experience. A disabled mode must never be priced.
type PricingConfig struct {
	Private PrivatePricing `json:"private"`
	Shared  SharedPricing  `json:"shared"`
	Group   GroupPricing   `json:"group"`
}

// Enabled reports whether the given booking type is enabled.
func (c PricingConfig) Enabled(bt BookingType) bool {
	switch bt {
	case BookingPrivate:
		return c.Private.Enabled
	case BookingShared:
		return c.Shared.Enabled
	case BookingGroup:
		return c.Group.Enabled
	}
	return false
}

// AddOn is a supplemental paid item attached to an experience.
// Behavior is keyed by CalculationType, never by name matching.
type AddOn struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	ExperienceID    uuid.UUID       `db:"experience_id" json:"-"`
	Name            string          `db:"name" json:"name"`
	Price           int64           `db:"price" json:"price"`
	CalculationType CalculationType `db:"calculation_type" json:"calculation_type"`
	Active          bool            `db:"active" json:"active"`
	Description     string          `db:"description" json:"description,omitempty"`
}

// TimeSlot is a specific time-of-day offering with finite capacity.
type TimeSlot struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	DayID           uuid.UUID   `db:"day_id" json:"-"`
	Time            string      `db:"slot_time" json:"time"` // "15:04"
	BookingType     BookingType `db:"booking_type" json:"booking_type"`
	MaxCapacity     int         `db:"max_capacity" json:"max_capacity"`
	CurrentBookings int         `db:"current_bookings" json:"current_bookings"`
	Available       bool        `db:"available" json:"available"`
}

// Bookable reports whether the slot can still take a booking. The
// manual Available override wins over remaining capacity.
func (s TimeSlot) Bookable() bool {
	return s.Available && s.CurrentBookings < s.MaxCapacity
}

// AvailabilityDay is one calendar date with its time slots.
type AvailabilityDay struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ExperienceID uuid.UUID  `db:"experience_id" json:"-"`
	Date         string     `db:"day" json:"date"` // "2006-01-02"
	Slots        []TimeSlot `db:"-" json:"slots"`
}

// Experience is a bookable product: a tour, workshop or temple visit.
type Experience struct {
	ID               uuid.UUID         `db:"id" json:"id"`
	Title            string            `db:"title" json:"title"`
	Slug             string            `db:"slug" json:"slug"`
	Category         string            `db:"category" json:"category"`
	Location         string            `db:"location" json:"location"`
	Duration         string            `db:"duration" json:"duration"`
	BasePrice        int64             `db:"base_price" json:"base_price"`
	Rating           float64           `db:"rating" json:"rating"`
	ShortDescription string            `db:"short_description" json:"short_description"`
	Description      string            `db:"description" json:"description"`
	Images           []string          `db:"-" json:"images"`
	Highlights       []string          `db:"-" json:"highlights"`
	Included         []string          `db:"-" json:"included"`
	Pricing          PricingConfig     `db:"-" json:"pricing"`
	AddOns           []AddOn           `db:"-" json:"add_ons"`
	Availability     []AvailabilityDay `db:"-" json:"availability"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updated_at"`
}

// ActiveAddOns returns the add-ons eligible for display and pricing.
func (e *Experience) ActiveAddOns() []AddOn {
	active := make([]AddOn, 0, len(e.AddOns))
	for _, a := range e.AddOns {
		if a.Active {
			active = append(active, a)
		}
	}
	return active
}
