package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// WithTx returns a repository bound to tx so slot writes can join a
// multi-aggregate transaction (swap execution, dispatch moves).
func (r *SlotRepository) WithTx(tx *gorm.DB) *SlotRepository {
	return &SlotRepository{db: tx}
}

type slotModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	StationID  int64     `gorm:"column:station_id;index"`
	SlotNumber int       `gorm:"column:slot_number"`
	BatteryID  *int64    `gorm:"column:battery_id"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (slotModel) TableName() string { return "station_battery_slots" }

func toDomainSlot(m slotModel) *domain.StationBatterySlot {
	return &domain.StationBatterySlot{
		ID:         m.ID,
		StationID:  m.StationID,
		SlotNumber: m.SlotNumber,
		BatteryID:  m.BatteryID,
		Status:     domain.SlotStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toSlotModel(s *domain.StationBatterySlot) slotModel {
	return slotModel{
		ID:         s.ID,
		StationID:  s.StationID,
		SlotNumber: s.SlotNumber,
		BatteryID:  s.BatteryID,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func (r *SlotRepository) Create(ctx context.Context, s *domain.StationBatterySlot) error {
	m := toSlotModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = *toDomainSlot(m)
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.StationBatterySlot, error) {
	var m slotModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainSlot(m), nil
}

func (r *SlotRepository) GetByStation(ctx context.Context, stationID int64) ([]domain.StationBatterySlot, error) {
	var ms []slotModel
	err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("slot_number").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.StationBatterySlot, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainSlot(m))
	}
	return out, nil
}

// GetByBattery finds the slot currently holding the battery, if any.
func (r *SlotRepository) GetByBattery(ctx context.Context, batteryID int64) (*domain.StationBatterySlot, error) {
	var m slotModel
	err := r.db.WithContext(ctx).
		Where("battery_id = ?", batteryID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainSlot(m), nil
}

// FindFreeSlot returns the lowest-numbered available slot at the station.
func (r *SlotRepository) FindFreeSlot(ctx context.Context, stationID int64) (*domain.StationBatterySlot, error) {
	var m slotModel
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND status = ?", stationID, string(domain.SlotAvailable)).
		Order("slot_number").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainSlot(m), nil
}

// Occupy docks a battery into a slot. The WHERE guard makes the update
// a no-op unless the slot is still available, so two concurrent writers
// cannot both win.
func (r *SlotRepository) Occupy(ctx context.Context, slotID, batteryID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("id = ? AND status = ?", slotID, string(domain.SlotAvailable)).
		Updates(map[string]any{
			"battery_id": batteryID,
			"status":     string(domain.SlotOccupied),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release clears an occupied slot. Same guarded-update contract as Occupy.
func (r *SlotRepository) Release(ctx context.Context, slotID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("id = ? AND status = ?", slotID, string(domain.SlotOccupied)).
		Updates(map[string]any{
			"battery_id": nil,
			"status":     string(domain.SlotAvailable),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetStatus overwrites slot state during reconciliation.
func (r *SlotRepository) SetStatus(ctx context.Context, slotID int64, batteryID *int64, status domain.SlotStatus) error {
	return r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("id = ?", slotID).
		Updates(map[string]any{
			"battery_id": batteryID,
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

// StationFreeCount is one row of the free-capacity snapshot used by the
// rebalance planner.
type StationFreeCount struct {
	StationID int64 `gorm:"column:station_id"`
	Free      int   `gorm:"column:free"`
}

func (r *SlotRepository) CountFreeByStation(ctx context.Context) ([]StationFreeCount, error) {
	var rows []StationFreeCount
	err := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Select("station_id, COUNT(1) AS free").
		Where("status = ?", string(domain.SlotAvailable)).
		Group("station_id").
		Find(&rows).Error
	return rows, err
}
