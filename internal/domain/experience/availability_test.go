package experience_test

import (
	"errors"
	"testing"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/experience"
)

func testCalendar() []experience.AvailabilityDay {
	return []experience.AvailabilityDay{
		{
			Date: "2026-09-14",
			Slots: []experience.TimeSlot{
				{Time: "09:00", BookingType: experience.BookingShared, MaxCapacity: 6, CurrentBookings: 6, Available: true},
				{Time: "14:00", BookingType: experience.BookingPrivate, MaxCapacity: 4, CurrentBookings: 1, Available: true},
			},
		},
		{
			Date: "2026-09-12",
			Slots: []experience.TimeSlot{
				{Time: "10:00", BookingType: experience.BookingShared, MaxCapacity: 8, CurrentBookings: 2, Available: true},
				{Time: "07:00", BookingType: experience.BookingShared, MaxCapacity: 8, CurrentBookings: 0, Available: true},
			},
		},
		{
			Date: "2026-09-13",
			Slots: []experience.TimeSlot{
				{Time: "10:00", BookingType: experience.BookingShared, MaxCapacity: 8, CurrentBookings: 3, Available: false},
			},
		},
	}
}

func TestListBookableDatesFiltersByType(t *testing.T) {
	days := testCalendar()

	// Shared: 09-14 is full, 09-13 is manually closed, only 09-12 remains.
	dates, err := experience.ListBookableDates(days, experience.BookingShared)
	requireNoError(t, err)
	if len(dates) != 1 || dates[0] != "2026-09-12" {
		t.Fatalf("unexpected shared dates: %v", dates)
	}

	// Private: only 09-14 has an open private slot.
	dates, err = experience.ListBookableDates(days, experience.BookingPrivate)
	requireNoError(t, err)
	if len(dates) != 1 || dates[0] != "2026-09-14" {
		t.Fatalf("unexpected private dates: %v", dates)
	}
}

func TestListBookableDatesSortedAscending(t *testing.T) {
	days := testCalendar()
	for i := range days {
		for j := range days[i].Slots {
			days[i].Slots[j].CurrentBookings = 0
			days[i].Slots[j].Available = true
		}
	}

	dates, err := experience.ListBookableDates(days, experience.BookingShared)
	requireNoError(t, err)

	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %v", dates)
	}
	for i := 1; i < len(dates); i++ {
		if dates[i-1] >= dates[i] {
			t.Fatalf("dates not ascending: %v", dates)
		}
	}
}

func TestListBookableDatesEmptyCalendar(t *testing.T) {
	dates, err := experience.ListBookableDates(nil, experience.BookingShared)
	requireNoError(t, err)
	if len(dates) != 0 {
		t.Fatalf("expected empty list, got %v", dates)
	}
}

func TestListBookableDatesMalformedDate(t *testing.T) {
	days := []experience.AvailabilityDay{{Date: "12/09/2026"}}

	_, err := experience.ListBookableDates(days, experience.BookingShared)
	if !errors.Is(err, experience.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestListOpenSlotsOrderedByTime(t *testing.T) {
	days := testCalendar()

	slots, err := experience.ListOpenSlots(days, "2026-09-12", experience.BookingShared)
	requireNoError(t, err)

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Time != "07:00" || slots[1].Time != "10:00" {
		t.Fatalf("slots out of order: %+v", slots)
	}
	if slots[0].RemainingCapacity != 8 || slots[1].RemainingCapacity != 6 {
		t.Fatalf("wrong remaining capacity: %+v", slots)
	}
}

func TestListOpenSlotsUnknownDate(t *testing.T) {
	slots, err := experience.ListOpenSlots(testCalendar(), "2026-10-01", experience.BookingShared)
	requireNoError(t, err)
	if len(slots) != 0 {
		t.Fatalf("expected empty list for unknown date, got %+v", slots)
	}
}

func TestListOpenSlotsExcludesFullAndClosed(t *testing.T) {
	slots, err := experience.ListOpenSlots(testCalendar(), "2026-09-14", experience.BookingShared)
	requireNoError(t, err)
	if len(slots) != 0 {
		t.Fatalf("full slot returned: %+v", slots)
	}

	slots, err = experience.ListOpenSlots(testCalendar(), "2026-09-13", experience.BookingShared)
	requireNoError(t, err)
	if len(slots) != 0 {
		t.Fatalf("manually closed slot returned: %+v", slots)
	}
}

func TestListOpenSlotsMalformedInput(t *testing.T) {
	_, err := experience.ListOpenSlots(testCalendar(), "next tuesday", experience.BookingShared)
	if !errors.Is(err, experience.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	days := []experience.AvailabilityDay{{
		Date: "2026-09-12",
		Slots: []experience.TimeSlot{
			{Time: "9am", BookingType: experience.BookingShared, MaxCapacity: 4, Available: true},
		},
	}}
	_, err = experience.ListOpenSlots(days, "2026-09-12", experience.BookingShared)
	if !errors.Is(err, experience.ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestFindSlot(t *testing.T) {
	days := testCalendar()

	s := experience.FindSlot(days, "2026-09-14", "14:00", experience.BookingPrivate)
	if s == nil || s.MaxCapacity != 4 {
		t.Fatalf("expected private slot, got %+v", s)
	}

	if experience.FindSlot(days, "2026-09-14", "14:00", experience.BookingShared) != nil {
		t.Fatal("expected nil for mismatched booking type")
	}
}
