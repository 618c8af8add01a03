package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRejected  BookingStatus = "rejected"
)

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingRejected
}

// CanTransitionTo encodes the booking state machine:
// pending -> confirmed -> completed, pending -> rejected,
// pending/confirmed -> cancelled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingRejected || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

type Booking struct {
	ID            int64         `json:"id"`
	StationID     int64         `json:"station_id" validate:"required"`
	UserID        int64         `json:"user_id" validate:"required"`
	VehicleID     int64         `json:"vehicle_id" validate:"required"`
	BatteryTypeID int64         `json:"battery_type_id" validate:"required"`
	BookingDate   string        `json:"booking_date" validate:"required"` // YYYY-MM-DD
	TimeSlot      string        `json:"time_slot" validate:"required"`    // HH:MM grid label
	Status        BookingStatus `json:"status"`
	RejectReason  string        `json:"reject_reason,omitempty" gorm:"type:text"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
}

// BatteryBookingSlot binds a confirmed booking to the physical slot and
// battery reserved for it. Created at confirmation, invalidated when the
// booking reaches a terminal status.
type BatteryBookingSlot struct {
	ID        int64         `json:"id"`
	BookingID int64         `json:"booking_id"`
	SlotID    int64         `json:"slot_id"`
	BatteryID int64         `json:"battery_id"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
