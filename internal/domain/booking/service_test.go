package booking_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/booking"
	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
)

/* ===== Helpers ===== */

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type capturedFeed struct {
	mu     sync.Mutex
	events []*booking.Event
}

func (f *capturedFeed) PublishBookingEvent(event *booking.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *capturedFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// seedExperience stores a boat-ride experience with shared pricing,
// one add-on and a two-seat slot on 2026-10-01 at 06:00.
func seedExperience(t *testing.T, repo experience.Repository) *experience.Experience {
	t.Helper()

	exp := &experience.Experience{
		ID:       uuid.New(),
		Title:    "Varanasi Sunrise Boat Ride",
		Slug:     "varanasi-sunrise-boat-ride",
		Category: "tour",
		Location: "Varanasi",
		Pricing: experience.PricingConfig{
			Shared: experience.SharedPricing{
				Enabled:    true,
				AdultPrice: 1200,
				ChildPrice: 600,
			},
		},
		AddOns: []experience.AddOn{
			{
				ID:              uuid.New(),
				Name:            "Chai and snacks",
				Price:           150,
				CalculationType: experience.CalcPerPerson,
				Active:          true,
			},
		},
		Availability: []experience.AvailabilityDay{
			{
				ID:   uuid.New(),
				Date: "2026-10-01",
				Slots: []experience.TimeSlot{
					{
						ID:          uuid.New(),
						Time:        "06:00",
						BookingType: experience.BookingShared,
						MaxCapacity: 2,
						Available:   true,
					},
				},
			},
		},
	}
	requireNoError(t, repo.Create(context.Background(), exp))
	return exp
}

func newService(t *testing.T) (*booking.Service, experience.Repository, *experience.Experience, *capturedFeed) {
	t.Helper()
	expRepo := experience.NewMemoryRepository()
	exp := seedExperience(t, expRepo)
	feed := &capturedFeed{}
	svc := booking.NewService(booking.NewMemoryRepository(), expRepo, feed)
	return svc, expRepo, exp, feed
}

func checkoutRequest(exp *experience.Experience) *booking.CreateBookingRequest {
	return &booking.CreateBookingRequest{
		ExperienceID:  exp.ID.String(),
		BookingType:   "shared",
		Date:          "2026-10-01",
		Time:          "06:00",
		Adults:        1,
		Kids:          1,
		CustomerName:  "Asha Nair",
		CustomerEmail: "asha@example.com",
	}
}

/* ===== Checkout ===== */

func TestCreateComputesPriceServerSide(t *testing.T) {
	svc, _, exp, feed := newService(t)

	req := checkoutRequest(exp)
	req.AddOns = []experience.AddOnSelection{{AddOnID: exp.AddOns[0].ID.String(), Quantity: 2}}

	b, err := svc.Create(context.Background(), uuid.NewString(), req)
	requireNoError(t, err)

	// 1 adult + 1 child shared, plus per-person chai for 2 guests.
	if b.BasePrice != 1800 {
		t.Errorf("base price = %d, want 1800", b.BasePrice)
	}
	if b.AddOnsCost != 300 {
		t.Errorf("add-ons cost = %d, want 300", b.AddOnsCost)
	}
	if b.TotalPrice != 2100 {
		t.Errorf("total = %d, want 2100", b.TotalPrice)
	}
	if b.Status != booking.StatusPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.Reference == "" {
		t.Error("expected a booking reference")
	}
	if len(b.AddOns) != 1 || b.AddOns[0].Cost != 300 {
		t.Errorf("add-on lines = %+v, want one line costing 300", b.AddOns)
	}
	if feed.count() != 1 {
		t.Errorf("feed events = %d, want 1", feed.count())
	}
}

func TestCreateReservesSeat(t *testing.T) {
	svc, expRepo, exp, _ := newService(t)

	_, err := svc.Create(context.Background(), uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	stored, err := expRepo.GetByID(context.Background(), exp.ID)
	requireNoError(t, err)
	if got := stored.Availability[0].Slots[0].CurrentBookings; got != 1 {
		t.Errorf("current bookings = %d, want 1", got)
	}
}

func TestCreateRejectsFullSlot(t *testing.T) {
	svc, _, exp, _ := newService(t)
	ctx := context.Background()

	// Capacity is 2 seats; each booking takes one.
	_, err := svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)
	_, err = svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	_, err = svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	if err != booking.ErrSlotUnavailable {
		t.Errorf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestCreateRejectsUnknownSlot(t *testing.T) {
	svc, _, exp, _ := newService(t)

	req := checkoutRequest(exp)
	req.Time = "18:00"

	_, err := svc.Create(context.Background(), uuid.NewString(), req)
	if err != booking.ErrSlotUnavailable {
		t.Errorf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestCreateRejectsDisabledBookingType(t *testing.T) {
	svc, _, exp, _ := newService(t)

	req := checkoutRequest(exp)
	req.BookingType = "private"

	_, err := svc.Create(context.Background(), uuid.NewString(), req)
	if err != booking.ErrSlotUnavailable {
		// No private slot exists on that date.
		t.Errorf("err = %v, want ErrSlotUnavailable", err)
	}
}

/* ===== Lifecycle ===== */

func TestStatusTransitions(t *testing.T) {
	svc, _, exp, _ := newService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	// pending -> completed skips confirmation
	if _, err := svc.UpdateStatus(ctx, b.ID, booking.StatusCompleted); err != booking.ErrInvalidTransition {
		t.Errorf("pending->completed err = %v, want ErrInvalidTransition", err)
	}

	updated, err := svc.UpdateStatus(ctx, b.ID, booking.StatusConfirmed)
	requireNoError(t, err)
	if updated.Status != booking.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}

	updated, err = svc.UpdateStatus(ctx, b.ID, booking.StatusCompleted)
	requireNoError(t, err)

	// completed is terminal
	if _, err := svc.UpdateStatus(ctx, b.ID, booking.StatusCancelled); err != booking.ErrInvalidTransition {
		t.Errorf("completed->cancelled err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancellationReleasesSeat(t *testing.T) {
	svc, expRepo, exp, _ := newService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	_, err = svc.UpdateStatus(ctx, b.ID, booking.StatusCancelled)
	requireNoError(t, err)

	stored, err := expRepo.GetByID(ctx, exp.ID)
	requireNoError(t, err)
	if got := stored.Availability[0].Slots[0].CurrentBookings; got != 0 {
		t.Errorf("current bookings after cancel = %d, want 0", got)
	}
}

func TestCancelOwnRejectsOtherCustomer(t *testing.T) {
	svc, _, exp, _ := newService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	if _, err := svc.CancelOwn(ctx, b.ID, uuid.NewString()); err != booking.ErrNotOwner {
		t.Errorf("err = %v, want ErrNotOwner", err)
	}
}

func TestListMineReturnsOnlyOwnBookings(t *testing.T) {
	svc, _, exp, _ := newService(t)
	ctx := context.Background()

	mine := uuid.NewString()
	_, err := svc.Create(ctx, mine, checkoutRequest(exp))
	requireNoError(t, err)
	_, err = svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	bookings, err := svc.ListMine(ctx, mine)
	requireNoError(t, err)
	if len(bookings) != 1 {
		t.Fatalf("got %d bookings, want 1", len(bookings))
	}
	if bookings[0].CustomerID != mine {
		t.Errorf("customer = %s, want %s", bookings[0].CustomerID, mine)
	}
}

func TestGetByReferenceNormalizesInput(t *testing.T) {
	svc, _, exp, _ := newService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	// Confirmation-page lookups arrive however the customer typed them.
	found, err := svc.GetByReference(ctx, "  "+strings.ToLower(b.Reference)+" ")
	requireNoError(t, err)
	if found.ID != b.ID {
		t.Errorf("found booking %s, want %s", found.ID, b.ID)
	}

	if _, err := svc.GetByReference(ctx, "SKT-DEADBEEF"); err != booking.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusBumpsUpdatedAt(t *testing.T) {
	svc, _, exp, _ := newService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	_, err = svc.UpdateStatus(ctx, b.ID, booking.StatusConfirmed)
	requireNoError(t, err)

	// The stored row, not just the returned struct, carries the bump.
	stored, err := svc.GetByID(ctx, b.ID, "")
	requireNoError(t, err)
	if !stored.UpdatedAt.After(b.UpdatedAt) {
		t.Errorf("stored updated_at %v not after %v", stored.UpdatedAt, b.UpdatedAt)
	}
}

/* ===== Stats ===== */

func TestStatsCountRevenueFromConfirmedOnly(t *testing.T) {
	svc, _, exp, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)
	_, err = svc.Create(ctx, uuid.NewString(), checkoutRequest(exp))
	requireNoError(t, err)

	_, err = svc.UpdateStatus(ctx, first.ID, booking.StatusConfirmed)
	requireNoError(t, err)

	stats, err := svc.Stats(ctx)
	requireNoError(t, err)
	if stats.Total != 2 {
		t.Errorf("total = %d, want 2", stats.Total)
	}
	if stats.ByStatus["pending"] != 1 || stats.ByStatus["confirmed"] != 1 {
		t.Errorf("by status = %v", stats.ByStatus)
	}
	if stats.Revenue != first.TotalPrice {
		t.Errorf("revenue = %d, want %d", stats.Revenue, first.TotalPrice)
	}
}
