package station

import (
	"context"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

type StationRepository interface {
	// CreateWithSlots writes the station and its slot grid atomically.
	CreateWithSlots(ctx context.Context, s *domain.Station) error
	GetByID(ctx context.Context, id int64) (*domain.Station, error)
	ListActive(ctx context.Context) ([]domain.Station, error)
}

type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StationBatterySlot, error)
	GetByStation(ctx context.Context, stationID int64) ([]domain.StationBatterySlot, error)
	Occupy(ctx context.Context, slotID, batteryID int64) (bool, error)
	Release(ctx context.Context, slotID int64) (bool, error)
	SetStatus(ctx context.Context, slotID int64, batteryID *int64, status domain.SlotStatus) error
}

type BatteryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Battery, error)
	DockAtStation(ctx context.Context, batteryID, stationID int64) error
	ListDockedAtStation(ctx context.Context, stationID int64) ([]domain.Battery, error)
	CountByTypeStatusAt(ctx context.Context, stationID int64) ([]repository.StationTypeCount, error)
}

type StationLocker interface {
	WithStation(stationID int64, fn func() error) error
}

type EventSink interface {
	PublishSlotEvent(stationID, slotID int64, status domain.SlotStatus)
}
