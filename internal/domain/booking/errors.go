package booking

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrSlotUnavailable   = errors.New("the selected time slot is no longer available")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
	ErrNotOwner          = errors.New("booking belongs to another customer")
)
