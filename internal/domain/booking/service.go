package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
)

// EventPublisher receives booking lifecycle events for the admin live
// feed. Implemented by the WebSocket hub; a nil publisher is allowed.
type EventPublisher interface {
	PublishBookingEvent(event *Event)
}

// Service handles booking business logic
type Service struct {
	repo    Repository
	expRepo experience.Repository
	feed    EventPublisher
}

// NewService creates booking service
func NewService(repo Repository, expRepo experience.Repository, feed EventPublisher) *Service {
	return &Service{repo: repo, expRepo: expRepo, feed: feed}
}

// Create books a time slot. The quoted price from the storefront is
// ignored: the total is recomputed here against the current catalog,
// and the seat is taken only if the slot is still open.
func (s *Service) Create(ctx context.Context, customerID string, req *CreateBookingRequest) (*Booking, error) {
	expID, err := uuid.Parse(req.ExperienceID)
	if err != nil {
		return nil, experience.ErrNotFound
	}
	exp, err := s.expRepo.GetByID(ctx, expID)
	if err != nil {
		return nil, err
	}

	bt := experience.BookingType(req.BookingType)
	slot := experience.FindSlot(exp.Availability, req.Date, req.Time, bt)
	if slot == nil || !slot.Bookable() {
		return nil, ErrSlotUnavailable
	}

	guests := experience.Guests{Adults: req.Adults, Kids: req.Kids}
	quote, err := experience.ComputePrice(exp.Pricing, bt, guests, req.GroupSize, req.AddOns, exp.AddOns)
	if err != nil {
		return nil, err
	}

	lines, err := buildAddOnLines(exp, bt, guests, req.GroupSize, req.AddOns)
	if err != nil {
		return nil, err
	}

	if err := s.expRepo.ReserveSeat(ctx, slot.ID); err != nil {
		if err == experience.ErrSlotFull || err == experience.ErrSlotNotFound {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	now := time.Now()
	b := &Booking{
		ID:              uuid.New(),
		Reference:       newReference(),
		ExperienceID:    exp.ID,
		ExperienceTitle: exp.Title,
		SlotID:          slot.ID,
		CustomerID:      customerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		BookingType:     bt,
		Date:            req.Date,
		Time:            req.Time,
		Adults:          req.Adults,
		Kids:            req.Kids,
		GroupSize:       req.GroupSize,
		AddOns:          lines,
		BasePrice:       quote.BasePrice,
		AddOnsCost:      quote.AddOnsCost,
		TotalPrice:      quote.Total,
		Status:          StatusPending,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		// Give the seat back; the booking never existed.
		if relErr := s.expRepo.ReleaseSeat(ctx, slot.ID); relErr != nil {
			log.Error().Err(relErr).Str("slot_id", slot.ID.String()).Msg("Failed to release seat after booking error")
		}
		return nil, err
	}

	s.publish(EventBookingCreated, b)
	return b, nil
}

// GetByID returns a booking. When customerID is non-empty the booking
// must belong to that customer.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, customerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerID != "" && b.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	return b, nil
}

// GetByReference looks up a booking by its customer-facing reference.
func (s *Service) GetByReference(ctx context.Context, ref string) (*Booking, error) {
	return s.repo.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(ref)))
}

// ListMine returns the customer's bookings, newest first.
func (s *Service) ListMine(ctx context.Context, customerID string) ([]*Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// List returns bookings for the back office.
func (s *Service) List(ctx context.Context, f Filter) ([]*Booking, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	return s.repo.List(ctx, f)
}

// UpdateStatus moves a booking through its lifecycle. Cancelling gives
// the seat back to the slot.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	b.Status = to
	b.UpdatedAt = time.Now()

	if to == StatusCancelled {
		if err := s.expRepo.ReleaseSeat(ctx, b.SlotID); err != nil {
			log.Error().Err(err).Str("booking_id", id.String()).Msg("Failed to release seat on cancellation")
		}
	}

	s.publish(EventBookingUpdated, b)
	return b, nil
}

// CancelOwn lets a customer cancel their own pending or confirmed
// booking.
func (s *Service) CancelOwn(ctx context.Context, id uuid.UUID, customerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	return s.UpdateStatus(ctx, id, StatusCancelled)
}

// Stats returns booking aggregates for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) publish(eventType EventType, b *Booking) {
	if s.feed == nil {
		return
	}
	s.feed.PublishBookingEvent(&Event{
		Type:    eventType,
		Booking: b,
		At:      time.Now(),
	})
}

// buildAddOnLines prices each selection on its own so the stored
// snapshot shows what every add-on contributed to the total.
func buildAddOnLines(exp *experience.Experience, bt experience.BookingType,
	guests experience.Guests, groupSize int, selections []experience.AddOnSelection) ([]AddOnLine, error) {

	byID := make(map[string]experience.AddOn, len(exp.AddOns))
	for _, a := range exp.AddOns {
		byID[a.ID.String()] = a
	}

	lines := make([]AddOnLine, 0, len(selections))
	for _, sel := range selections {
		addOn, ok := byID[sel.AddOnID]
		if !ok || !addOn.Active {
			continue
		}
		quote, err := experience.ComputePrice(exp.Pricing, bt, guests, groupSize,
			[]experience.AddOnSelection{sel}, exp.AddOns)
		if err != nil {
			return nil, err
		}
		lines = append(lines, AddOnLine{
			AddOnID:  addOn.ID,
			Name:     addOn.Name,
			Quantity: sel.Quantity,
			Cost:     quote.AddOnsCost,
		})
	}
	return lines, nil
}

// newReference makes a short customer-facing booking code.
func newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("SKT-%s", id[:8])
}
