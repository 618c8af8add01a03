package repository

import "errors"

var (
	// ErrSlotTaken is returned by the booking insert when another
	// non-terminal booking already holds the (station, date, time slot)
	// grid cell. The check and the insert run in one transaction.
	ErrSlotTaken = errors.New("time slot is already booked")

	ErrNotFound = errors.New("record not found")
)
