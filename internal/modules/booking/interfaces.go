package booking

import (
	"context"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

// BookingRepository is the persistence contract of the booking state
// machine. Reserve and Terminate are transactional: they move the
// booking and its reservation row together.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Reserve(ctx context.Context, bookingID, slotID, batteryID int64) error
	Terminate(ctx context.Context, bookingID int64, from, to domain.BookingStatus, reason string) error
	ActiveByStationDate(ctx context.Context, stationID int64, date string) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListByStation(ctx context.Context, stationID int64, limit, offset int) ([]domain.Booking, error)
}

type StationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Station, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

// BatteryFinder locates charged stock for reservation at confirm time.
type BatteryFinder interface {
	FindAvailableAtStation(ctx context.Context, stationID, batteryTypeID int64) (*domain.Battery, error)
}

type SlotFinder interface {
	GetByBattery(ctx context.Context, batteryID int64) (*domain.StationBatterySlot, error)
}

// StationLocker serializes create/confirm/cancel against swaps and
// dispatch moves on the same station.
type StationLocker interface {
	WithStation(stationID int64, fn func() error) error
}

// EventSink receives booking lifecycle events for live station
// monitoring. Implementations must not block.
type EventSink interface {
	PublishBookingEvent(stationID, bookingID int64, status domain.BookingStatus)
}
