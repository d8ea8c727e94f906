package experience

import (
	"sort"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// OpenSlot is a still-bookable time slot on a given date.
type OpenSlot struct {
	Time              string `json:"time"`
	RemainingCapacity int    `json:"remaining_capacity"`
}

// ListBookableDates returns the dates that have at least one bookable
// slot of the given booking type, ascending and without duplicates.
// An empty calendar yields an empty list.
func ListBookableDates(days []AvailabilityDay, bt BookingType) ([]string, error) {
	seen := make(map[string]bool)
	dates := make([]string, 0, len(days))

	for _, day := range days {
		if _, err := time.Parse(dateLayout, day.Date); err != nil {
			return nil, ErrInvalidDate
		}
		if seen[day.Date] {
			continue
		}
		for _, slot := range day.Slots {
			if slot.BookingType == bt && slot.Bookable() {
				seen[day.Date] = true
				dates = append(dates, day.Date)
				break
			}
		}
	}

	sort.Strings(dates)
	return dates, nil
}

// ListOpenSlots returns the bookable slots of the given booking type
// on the given date, ordered by time of day. An unknown date yields an
// empty list, not an error.
func ListOpenSlots(days []AvailabilityDay, date string, bt BookingType) ([]OpenSlot, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	open := make([]OpenSlot, 0)
	for _, day := range days {
		if day.Date != date {
			continue
		}
		for _, slot := range day.Slots {
			if slot.BookingType != bt || !slot.Bookable() {
				continue
			}
			if _, err := time.Parse(timeLayout, slot.Time); err != nil {
				return nil, ErrInvalidTime
			}
			open = append(open, OpenSlot{
				Time:              slot.Time,
				RemainingCapacity: slot.MaxCapacity - slot.CurrentBookings,
			})
		}
	}

	sort.Slice(open, func(i, j int) bool { return open[i].Time < open[j].Time })
	return open, nil
}

// FindSlot locates a slot by date, time and booking type in the
// calendar. Returns nil when no such slot exists.
func FindSlot(days []AvailabilityDay, date, slotTime string, bt BookingType) *TimeSlot {
	for i := range days {
		if days[i].Date != date {
			continue
		}
		for j := range days[i].Slots {
			s := &days[i].Slots[j]
			if s.Time == slotTime && s.BookingType == bt {
				return s
			}
		}
	}
	return nil
}
