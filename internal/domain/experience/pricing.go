package experience

// Guests is the guest composition for private and shared bookings.
type Guests struct {
	Adults int `json:"adults"`
	Kids   int `json:"kids"`
}

// Total returns the total number of guests.
func (g Guests) Total() int {
	return g.Adults + g.Kids
}

// AddOnSelection is a caller-chosen add-on. Quantity is used by
// per_person add-ons; for per_adult it defaults to the adult count
// when zero. Flat and per_3_guests ignore it.
type AddOnSelection struct {
	AddOnID  string `json:"add_on_id"`
	Quantity int    `json:"quantity,omitempty"`
}

// Quote is the result of a price computation. All values are rupees.
type Quote struct {
	BasePrice  int64 `json:"base_price"`
	AddOnsCost int64 `json:"add_ons_cost"`
	Total      int64 `json:"total"`
}

// ComputePrice computes the price for a booking. It is a pure
// function: no state is read or written beyond its arguments, so
// rapid recomputation from UI edits is safe and idempotent.
//
// The booking type must be enabled in cfg; the engine never silently
// falls back to another mode. groupSize is only used for group
// bookings, guests only for private and shared ones.
func ComputePrice(cfg PricingConfig, bt BookingType, guests Guests, groupSize int, selections []AddOnSelection, addOns []AddOn) (Quote, error) {
	if !bt.Valid() || !cfg.Enabled(bt) {
		return Quote{}, ErrInvalidBookingType
	}

	var base int64
	switch bt {
	case BookingPrivate:
		if guests.Adults < 1 || guests.Kids < 0 {
			return Quote{}, ErrInvalidGuestCount
		}
		base = cfg.Private.FirstAdultPrice +
			int64(guests.Adults-1)*cfg.Private.AdditionalAdultPrice +
			int64(guests.Kids)*cfg.Private.ChildPrice

	case BookingShared:
		if guests.Adults < 0 || guests.Kids < 0 || guests.Total() < 1 {
			return Quote{}, ErrInvalidGuestCount
		}
		base = int64(guests.Adults)*cfg.Shared.AdultPrice +
			int64(guests.Kids)*cfg.Shared.ChildPrice

	case BookingGroup:
		tier, err := selectGroupTier(cfg.Group, groupSize)
		if err != nil {
			return Quote{}, err
		}
		base = int64(groupSize) * tier.PricePerPerson
	}

	guestCount := guests.Total()
	if bt == BookingGroup {
		guestCount = groupSize
	}

	addOnsCost := computeAddOnsCost(selections, addOns, guests.Adults, guestCount)

	return Quote{
		BasePrice:  base,
		AddOnsCost: addOnsCost,
		Total:      base + addOnsCost,
	}, nil
}

// selectGroupTier picks the tier whose band contains size. Sizes above
// both tiers extrapolate the higher tier's rate; the band gap between
// tiers falls back to the lower tier. Sizes below both minimums are
// rejected.
func selectGroupTier(gp GroupPricing, size int) (GroupTier, error) {
	lower, upper := gp.Tier1, gp.Tier2
	if upper.MaxSize < lower.MaxSize {
		lower, upper = upper, lower
	}

	minSize := lower.MinSize
	if upper.MinSize < minSize {
		minSize = upper.MinSize
	}
	if size < minSize {
		return GroupTier{}, ErrInvalidGroupSize
	}

	switch {
	case lower.Contains(size):
		return lower, nil
	case upper.Contains(size):
		return upper, nil
	case size > upper.MaxSize:
		return upper, nil
	default:
		return lower, nil
	}
}

// computeAddOnsCost sums the contribution of every selected, active
// add-on. Inactive add-ons and selections pointing at unknown add-ons
// contribute nothing.
func computeAddOnsCost(selections []AddOnSelection, addOns []AddOn, adults, guestCount int) int64 {
	if len(selections) == 0 {
		return 0
	}

	byID := make(map[string]AddOn, len(addOns))
	for _, a := range addOns {
		if a.Active {
			byID[a.ID.String()] = a
		}
	}

	var cost int64
	for _, sel := range selections {
		a, ok := byID[sel.AddOnID]
		if !ok {
			continue
		}

		switch a.CalculationType {
		case CalcFlat:
			cost += a.Price
		case CalcPerPerson:
			if sel.Quantity > 0 {
				cost += a.Price * int64(sel.Quantity)
			}
		case CalcPerAdult:
			qty := sel.Quantity
			if qty <= 0 {
				qty = adults
			}
			if qty > 0 {
				cost += a.Price * int64(qty)
			}
		case CalcPerThreeGuests:
			// One unit per started group of three, e.g. one pickup
			// vehicle per three guests.
			if guestCount > 0 {
				units := (guestCount + 2) / 3
				cost += a.Price * int64(units)
			}
		}
	}

	return cost
}
