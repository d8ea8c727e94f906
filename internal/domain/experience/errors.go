package experience

import "errors"

var (
	ErrNotFound           = errors.New("experience not found")
	ErrInvalidBookingType = errors.New("booking type is not enabled for this experience")
	ErrInvalidGuestCount  = errors.New("invalid guest count")
	ErrInvalidGroupSize   = errors.New("group size is below the minimum for this experience")
	ErrInvalidDate        = errors.New("invalid date format")
	ErrInvalidTime        = errors.New("invalid time format")
	ErrSlotNotFound       = errors.New("time slot not found")
	ErrSlotFull           = errors.New("time slot has no remaining capacity")
	ErrSlugTaken          = errors.New("an experience with this slug already exists")
)
