package booking

import "errors"

var (
	ErrValidation         = errors.New("invalid booking input")
	ErrNotFound           = errors.New("booking resource not found")
	ErrSlotConflict       = errors.New("time slot already booked")
	ErrInvalidState       = errors.New("booking is not in the required state")
	ErrNoAvailableBattery = errors.New("no available battery of the requested type")
	ErrForbidden          = errors.New("operation not allowed for this user")
	ErrCancelWindowClosed = errors.New("cancellation window has closed")
)
