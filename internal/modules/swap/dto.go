package swap

import "github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"

type CreateSwapRequest struct {
	BookingID    int64 `json:"booking_id" binding:"required"`
	NewBatteryID int64 `json:"new_battery_id" binding:"required"`

	StaffID int64 `json:"-"` // filled from the auth context
}

type UpdateSwapStatusRequest struct {
	Status domain.SwapStatus `json:"status" binding:"required"`
}

type AttachPaymentRequest struct {
	PaymentID int64 `json:"payment_id" binding:"required"`
}
