package swap

import (
	"context"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

// SwapRepository persists swap records. ExecuteSwap is the atomic
// multi-row exchange; everything moves in one transaction.
type SwapRepository interface {
	ExecuteSwap(ctx context.Context, ex repository.SwapExecution) (*domain.BatterySwap, error)
	GetByID(ctx context.Context, id int64) (*domain.BatterySwap, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.SwapStatus) (bool, error)
	SetPayment(ctx context.Context, id, paymentID int64) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.BatterySwap, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetReservation(ctx context.Context, bookingID int64) (*domain.BatteryBookingSlot, error)
}

type BatteryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Battery, error)
}

type SlotFinder interface {
	GetByBattery(ctx context.Context, batteryID int64) (*domain.StationBatterySlot, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

type StationLocker interface {
	WithStation(stationID int64, fn func() error) error
}

type EventSink interface {
	PublishSwapEvent(stationID, swapID int64, status domain.SwapStatus)
}

// QuotaConsumer debits one swap from the driver's plan allowance.
// Implementations return ErrQuotaExceeded when the allowance is spent.
// RefundSwap credits the unit back when the swap never happened.
type QuotaConsumer interface {
	ConsumeSwap(ctx context.Context, userID int64) error
	RefundSwap(ctx context.Context, userID int64) error
}
