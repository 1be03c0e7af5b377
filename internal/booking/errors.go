package booking

import "errors"

var (
	// ErrSlotNotFound means the referenced slot does not exist.
	ErrSlotNotFound = errors.New("consultation slot not found")

	// ErrSlotConflict means the slot is unavailable: already booked, or
	// freshly locked by a different user.
	ErrSlotConflict = errors.New("consultation slot is unavailable")
)
