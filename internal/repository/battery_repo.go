package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type BatteryRepository struct {
	db *gorm.DB
}

func NewBatteryRepository(db *gorm.DB) *BatteryRepository {
	return &BatteryRepository{db: db}
}

func (r *BatteryRepository) WithTx(tx *gorm.DB) *BatteryRepository {
	return &BatteryRepository{db: tx}
}

type batteryModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	SerialNumber  string    `gorm:"column:serial_number;uniqueIndex"`
	BatteryTypeID int64     `gorm:"column:battery_type_id;index"`
	CapacityWh    int       `gorm:"column:capacity_wh"`
	ChargeWh      int       `gorm:"column:charge_wh"`
	Status        string    `gorm:"column:status"`
	StationID     *int64    `gorm:"column:station_id;index"`
	VehicleID     *int64    `gorm:"column:vehicle_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (batteryModel) TableName() string { return "batteries" }

func toDomainBattery(m batteryModel) *domain.Battery {
	return &domain.Battery{
		ID:            m.ID,
		SerialNumber:  m.SerialNumber,
		BatteryTypeID: m.BatteryTypeID,
		CapacityWh:    m.CapacityWh,
		ChargeWh:      m.ChargeWh,
		Status:        domain.BatteryStatus(m.Status),
		StationID:     m.StationID,
		VehicleID:     m.VehicleID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toBatteryModel(b *domain.Battery) batteryModel {
	return batteryModel{
		ID:            b.ID,
		SerialNumber:  b.SerialNumber,
		BatteryTypeID: b.BatteryTypeID,
		CapacityWh:    b.CapacityWh,
		ChargeWh:      b.ChargeWh,
		Status:        string(b.Status),
		StationID:     b.StationID,
		VehicleID:     b.VehicleID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (r *BatteryRepository) Create(ctx context.Context, b *domain.Battery) error {
	m := toBatteryModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBattery(m)
	return nil
}

func (r *BatteryRepository) GetByID(ctx context.Context, id int64) (*domain.Battery, error) {
	var m batteryModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainBattery(m), nil
}

// FindAvailableAtStation picks one charged battery of the requested type
// docked at the station, highest charge first.
func (r *BatteryRepository) FindAvailableAtStation(ctx context.Context, stationID, batteryTypeID int64) (*domain.Battery, error) {
	var m batteryModel
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND battery_type_id = ? AND status = ?",
			stationID, batteryTypeID, string(domain.BatteryAvailable)).
		Order("charge_wh DESC, id").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainBattery(m), nil
}

// ListAvailableAtStation returns up to limit movable batteries of a type
// at a station, lowest charge first so rebalancing ships the packs that
// would queue for the charger anyway.
func (r *BatteryRepository) ListAvailableAtStation(ctx context.Context, stationID, batteryTypeID int64, limit int) ([]domain.Battery, error) {
	var ms []batteryModel
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND battery_type_id = ? AND status = ?",
			stationID, batteryTypeID, string(domain.BatteryAvailable)).
		Order("charge_wh, id").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Battery, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBattery(m))
	}
	return out, nil
}

// AssignToVehicle moves the battery onto a vehicle. Guarded on the
// current status so a battery cannot be handed to two vehicles.
func (r *BatteryRepository) AssignToVehicle(ctx context.Context, batteryID, vehicleID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&batteryModel{}).
		Where("id = ? AND status = ?", batteryID, string(domain.BatteryAvailable)).
		Updates(map[string]any{
			"station_id": nil,
			"vehicle_id": vehicleID,
			"status":     string(domain.BatteryInUse),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DockAtStation returns the battery to station stock, charging.
func (r *BatteryRepository) DockAtStation(ctx context.Context, batteryID, stationID int64) error {
	return r.db.WithContext(ctx).
		Model(&batteryModel{}).
		Where("id = ?", batteryID).
		Updates(map[string]any{
			"station_id": stationID,
			"vehicle_id": nil,
			"status":     string(domain.BatteryCharging),
			"updated_at": time.Now(),
		}).Error
}

// Relocate changes the owning station of a docked battery, used by the
// dispatch executor. Guarded on the source station so a stale move
// cannot grab a battery that already left.
func (r *BatteryRepository) Relocate(ctx context.Context, batteryID, fromStationID, toStationID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&batteryModel{}).
		Where("id = ? AND station_id = ? AND status = ?",
			batteryID, fromStationID, string(domain.BatteryAvailable)).
		Updates(map[string]any{
			"station_id": toStationID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BatteryRepository) UpdateStatus(ctx context.Context, batteryID int64, status domain.BatteryStatus) error {
	return r.db.WithContext(ctx).
		Model(&batteryModel{}).
		Where("id = ?", batteryID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

// ListDockedAtStation returns every battery whose owning station is the
// given one and whose status allows sitting in a slot.
func (r *BatteryRepository) ListDockedAtStation(ctx context.Context, stationID int64) ([]domain.Battery, error) {
	var ms []batteryModel
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND status IN ?", stationID,
			[]string{string(domain.BatteryAvailable), string(domain.BatteryReserved), string(domain.BatteryCharging)}).
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Battery, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBattery(m))
	}
	return out, nil
}

// CountByTypeStatusAt is the station-scoped inventory summary.
func (r *BatteryRepository) CountByTypeStatusAt(ctx context.Context, stationID int64) ([]StationTypeCount, error) {
	var rows []StationTypeCount
	err := r.db.WithContext(ctx).
		Model(&batteryModel{}).
		Select("station_id, battery_type_id, status, COUNT(1) AS count").
		Where("station_id = ?", stationID).
		Group("station_id, battery_type_id, status").
		Find(&rows).Error
	return rows, err
}

// StationTypeCount is one row of the per-station inventory snapshot.
type StationTypeCount struct {
	StationID     int64  `gorm:"column:station_id"`
	BatteryTypeID int64  `gorm:"column:battery_type_id"`
	Status        string `gorm:"column:status"`
	Count         int    `gorm:"column:count"`
}

func (r *BatteryRepository) CountByStationTypeStatus(ctx context.Context) ([]StationTypeCount, error) {
	var rows []StationTypeCount
	err := r.db.WithContext(ctx).
		Model(&batteryModel{}).
		Select("station_id, battery_type_id, status, COUNT(1) AS count").
		Where("station_id IS NOT NULL").
		Group("station_id, battery_type_id, status").
		Find(&rows).Error
	return rows, err
}
