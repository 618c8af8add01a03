package domain

import "time"

type SwapStatus string

const (
	SwapPendingPayment SwapStatus = "pending_payment"
	SwapCompleted      SwapStatus = "completed"
	SwapRejected       SwapStatus = "rejected"
)

func (s SwapStatus) Terminal() bool {
	return s == SwapCompleted || s == SwapRejected
}

func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	return s == SwapPendingPayment && (next == SwapCompleted || next == SwapRejected)
}

// BatterySwap records an executed exchange: BatteryID is the battery
// removed from the vehicle, ToBatteryID the one installed.
type BatterySwap struct {
	ID          int64      `json:"id"`
	BookingID   *int64     `json:"booking_id,omitempty"`
	UserID      int64      `json:"user_id"`
	VehicleID   int64      `json:"vehicle_id"`
	StationID   int64      `json:"station_id"`
	StaffID     int64      `json:"staff_id"`
	BatteryID   *int64     `json:"battery_id,omitempty"`
	ToBatteryID int64      `json:"to_battery_id"`
	PaymentID   *int64     `json:"payment_id,omitempty"`
	Status      SwapStatus `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	SwappedAt   *time.Time `json:"swapped_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
