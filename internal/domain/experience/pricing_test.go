package experience_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
)

func fullPricingConfig() experience.PricingConfig {
	return experience.PricingConfig{
		Private: experience.PrivatePricing{
			Enabled:              true,
			FirstAdultPrice:      3600,
			AdditionalAdultPrice: 2200,
			ChildPrice:           1500,
		},
		Shared: experience.SharedPricing{
			Enabled:    true,
			AdultPrice: 1200,
			ChildPrice: 800,
		},
		Group: experience.GroupPricing{
			Enabled: true,
			Tier1:   experience.GroupTier{MinSize: 10, MaxSize: 17, PricePerPerson: 2200},
			Tier2:   experience.GroupTier{MinSize: 18, MaxSize: 25, PricePerPerson: 2000},
		},
	}
}

/* =========================
   Base price per booking type
   ========================= */

func TestPrivateBasePrice(t *testing.T) {
	cfg := fullPricingConfig()

	q, err := experience.ComputePrice(cfg, experience.BookingPrivate,
		experience.Guests{Adults: 3, Kids: 1}, 0, nil, nil)
	requireNoError(t, err)

	// 3600 + 2*2200 + 1*1500
	if q.BasePrice != 9500 {
		t.Fatalf("expected base 9500, got %d", q.BasePrice)
	}
	if q.Total != q.BasePrice {
		t.Fatalf("expected total == base with no add-ons, got %d", q.Total)
	}
}

func TestPrivateSingleAdult(t *testing.T) {
	cfg := fullPricingConfig()

	q, err := experience.ComputePrice(cfg, experience.BookingPrivate,
		experience.Guests{Adults: 1}, 0, nil, nil)
	requireNoError(t, err)

	if q.BasePrice != 3600 {
		t.Fatalf("expected base 3600, got %d", q.BasePrice)
	}
}

func TestPrivateRequiresAdult(t *testing.T) {
	cfg := fullPricingConfig()

	_, err := experience.ComputePrice(cfg, experience.BookingPrivate,
		experience.Guests{Adults: 0, Kids: 2}, 0, nil, nil)
	if !errors.Is(err, experience.ErrInvalidGuestCount) {
		t.Fatalf("expected ErrInvalidGuestCount, got %v", err)
	}
}

func TestSharedBasePrice(t *testing.T) {
	cfg := fullPricingConfig()

	q, err := experience.ComputePrice(cfg, experience.BookingShared,
		experience.Guests{Adults: 2, Kids: 3}, 0, nil, nil)
	requireNoError(t, err)

	if q.BasePrice != 2*1200+3*800 {
		t.Fatalf("unexpected shared base %d", q.BasePrice)
	}
}

func TestSharedKidsOnlyAllowed(t *testing.T) {
	cfg := fullPricingConfig()

	q, err := experience.ComputePrice(cfg, experience.BookingShared,
		experience.Guests{Adults: 0, Kids: 2}, 0, nil, nil)
	requireNoError(t, err)

	if q.BasePrice != 1600 {
		t.Fatalf("expected base 1600, got %d", q.BasePrice)
	}
}

func TestSharedRequiresAtLeastOneGuest(t *testing.T) {
	cfg := fullPricingConfig()

	_, err := experience.ComputePrice(cfg, experience.BookingShared,
		experience.Guests{}, 0, nil, nil)
	if !errors.Is(err, experience.ErrInvalidGuestCount) {
		t.Fatalf("expected ErrInvalidGuestCount, got %v", err)
	}
}

func TestGroupTierSelection(t *testing.T) {
	cfg := fullPricingConfig()

	tests := []struct {
		name     string
		size     int
		expected int64
	}{
		{"tier1 lower bound", 10, 10 * 2200},
		{"tier1 upper bound", 17, 17 * 2200},
		{"tier2 lower bound", 18, 18 * 2000},
		{"tier2 mid", 20, 20 * 2000},
		{"tier2 upper bound", 25, 25 * 2000},
		{"above tier2 extrapolates tier2 rate", 30, 30 * 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := experience.ComputePrice(cfg, experience.BookingGroup,
				experience.Guests{}, tt.size, nil, nil)
			requireNoError(t, err)
			if q.BasePrice != tt.expected {
				t.Fatalf("size %d: expected %d, got %d", tt.size, tt.expected, q.BasePrice)
			}
		})
	}
}

func TestGroupBelowMinimumRejected(t *testing.T) {
	cfg := fullPricingConfig()

	_, err := experience.ComputePrice(cfg, experience.BookingGroup,
		experience.Guests{}, 9, nil, nil)
	if !errors.Is(err, experience.ErrInvalidGroupSize) {
		t.Fatalf("expected ErrInvalidGroupSize, got %v", err)
	}
}

func TestDisabledModeNeverPriced(t *testing.T) {
	cfg := fullPricingConfig()
	cfg.Group.Enabled = false

	_, err := experience.ComputePrice(cfg, experience.BookingGroup,
		experience.Guests{}, 12, nil, nil)
	if !errors.Is(err, experience.ErrInvalidBookingType) {
		t.Fatalf("expected ErrInvalidBookingType, got %v", err)
	}
}

func TestUnknownBookingTypeRejected(t *testing.T) {
	cfg := fullPricingConfig()

	_, err := experience.ComputePrice(cfg, experience.BookingType("vip"),
		experience.Guests{Adults: 1}, 0, nil, nil)
	if !errors.Is(err, experience.ErrInvalidBookingType) {
		t.Fatalf("expected ErrInvalidBookingType, got %v", err)
	}
}

/* =========================
   Add-on contributions
   ========================= */

func testAddOns() []experience.AddOn {
	return []experience.AddOn{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Name: "Hotel pickup", Price: 1800, CalculationType: experience.CalcPerThreeGuests, Active: true},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Name: "Puja ticket", Price: 500, CalculationType: experience.CalcPerPerson, Active: true},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), Name: "Photography", Price: 2500, CalculationType: experience.CalcFlat, Active: true},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000004"), Name: "Audio guide", Price: 300, CalculationType: experience.CalcPerAdult, Active: true},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000005"), Name: "Retired souvenir", Price: 900, CalculationType: experience.CalcFlat, Active: false},
	}
}

func TestPickupPerThreeGuests(t *testing.T) {
	cfg := fullPricingConfig()
	addOns := testAddOns()
	sel := []experience.AddOnSelection{{AddOnID: "00000000-0000-0000-0000-000000000001"}}

	// 2 adults + 2 kids => ceil(4/3) = 2 vehicles
	q, err := experience.ComputePrice(cfg, experience.BookingPrivate,
		experience.Guests{Adults: 2, Kids: 2}, 0, sel, addOns)
	requireNoError(t, err)

	if q.AddOnsCost != 3600 {
		t.Fatalf("expected add-ons cost 3600, got %d", q.AddOnsCost)
	}
	if q.Total != q.BasePrice+q.AddOnsCost {
		t.Fatalf("total %d != base %d + add-ons %d", q.Total, q.BasePrice, q.AddOnsCost)
	}
}

func TestPerThreeGuestsBoundaries(t *testing.T) {
	cfg := fullPricingConfig()
	addOns := testAddOns()
	sel := []experience.AddOnSelection{{AddOnID: "00000000-0000-0000-0000-000000000001"}}

	tests := []struct {
		adults   int
		expected int64
	}{
		{1, 1800}, // ceil(1/3) = 1
		{3, 1800}, // ceil(3/3) = 1
		{4, 3600}, // ceil(4/3) = 2
	}

	for _, tt := range tests {
		q, err := experience.ComputePrice(cfg, experience.BookingPrivate,
			experience.Guests{Adults: tt.adults}, 0, sel, addOns)
		requireNoError(t, err)
		if q.AddOnsCost != tt.expected {
			t.Fatalf("adults=%d: expected %d, got %d", tt.adults, tt.expected, q.AddOnsCost)
		}
	}
}

func TestPerPersonUsesSelectedQuantity(t *testing.T) {
	cfg := fullPricingConfig()
	addOns := testAddOns()
	sel := []experience.AddOnSelection{{AddOnID: "00000000-0000-0000-0000-000000000002", Quantity: 3}}

	q, err := experience.ComputePrice(cfg, experience.BookingShared,
		experience.Guests{Adults: 2}, 0, sel, addOns)
	requireNoError(t, err)

	if q.AddOnsCost != 1500 {
		t.Fatalf("expected 1500, got %d", q.AddOnsCost)
	}
}

func TestPerAdultDefaultsToAdultCount(t *testing.T) {
	cfg := fullPricingConfig()
	addOns := testAddOns()
	sel := []experience.AddOnSelection{{AddOnID: "00000000-0000-0000-0000-000000000004"}}

	q, err := experience.ComputePrice(cfg, experience.BookingPrivate,
		experience.Guests{Adults: 3, Kids: 2}, 0, sel, addOns)
	requireNoError(t, err)

	if q.AddOnsCost != 900 {
		t.Fatalf("expected 900 (3 adults x 300), got %d", q.AddOnsCost)
	}
}

func TestInactiveAddOnContributesNothing(t *testing.T) {
	cfg := fullPricingConfig()
	addOns := testAddOns()
	sel := []experience.AddOnSelection{{AddOnID: "00000000-0000-0000-0000-000000000005"}}

	q, err := experience.ComputePrice(cfg, experience.BookingShared,
		experience.Guests{Adults: 1}, 0, sel, addOns)
	requireNoError(t, err)

	if q.AddOnsCost != 0 {
		t.Fatalf("inactive add-on priced: %d", q.AddOnsCost)
	}
}

func TestGroupBookingAddOnsUseGroupSize(t *testing.T) {
	cfg := fullPricingConfig()
	addOns := testAddOns()
	sel := []experience.AddOnSelection{{AddOnID: "00000000-0000-0000-0000-000000000001"}}

	// 20 guests => ceil(20/3) = 7 vehicles
	q, err := experience.ComputePrice(cfg, experience.BookingGroup,
		experience.Guests{}, 20, sel, addOns)
	requireNoError(t, err)

	if q.AddOnsCost != 7*1800 {
		t.Fatalf("expected %d, got %d", 7*1800, q.AddOnsCost)
	}
	if q.BasePrice != 40000 {
		t.Fatalf("expected base 40000, got %d", q.BasePrice)
	}
}

func TestMixedAddOnSelections(t *testing.T) {
	cfg := fullPricingConfig()
	addOns := testAddOns()
	sel := []experience.AddOnSelection{
		{AddOnID: "00000000-0000-0000-0000-000000000001"},              // pickup: ceil(3/3)*1800 = 1800
		{AddOnID: "00000000-0000-0000-0000-000000000002", Quantity: 2}, // puja: 1000
		{AddOnID: "00000000-0000-0000-0000-000000000003"},              // photography flat: 2500
	}

	q, err := experience.ComputePrice(cfg, experience.BookingPrivate,
		experience.Guests{Adults: 2, Kids: 1}, 0, sel, addOns)
	requireNoError(t, err)

	if q.AddOnsCost != 1800+1000+2500 {
		t.Fatalf("expected 5300, got %d", q.AddOnsCost)
	}
	if q.Total != q.BasePrice+5300 {
		t.Fatalf("total mismatch: %d", q.Total)
	}
}

func TestUnknownSelectionIgnored(t *testing.T) {
	cfg := fullPricingConfig()
	addOns := testAddOns()
	sel := []experience.AddOnSelection{{AddOnID: uuid.NewString()}}

	q, err := experience.ComputePrice(cfg, experience.BookingShared,
		experience.Guests{Adults: 1}, 0, sel, addOns)
	requireNoError(t, err)

	if q.AddOnsCost != 0 {
		t.Fatalf("unknown selection priced: %d", q.AddOnsCost)
	}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
