package dispatch

import (
	"context"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

type StationRepository interface {
	ListActive(ctx context.Context) ([]domain.Station, error)
}

type BatteryRepository interface {
	ListAvailableAtStation(ctx context.Context, stationID, batteryTypeID int64, limit int) ([]domain.Battery, error)
	CountByStationTypeStatus(ctx context.Context) ([]repository.StationTypeCount, error)
}

type SlotRepository interface {
	CountFreeByStation(ctx context.Context) ([]repository.StationFreeCount, error)
	TransferBattery(ctx context.Context, batteryID, fromStationID, toStationID int64) error
}

type StationLocker interface {
	WithStations(a, b int64, fn func() error) error
}
