package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) WithTx(tx *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: tx}
}

type vehicleModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	UserID        int64     `gorm:"column:user_id;index"`
	PlateNumber   string    `gorm:"column:plate_number;uniqueIndex"`
	Model         string    `gorm:"column:model"`
	BatteryTypeID int64     `gorm:"column:battery_type_id"`
	BatteryID     *int64    `gorm:"column:battery_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (vehicleModel) TableName() string { return "vehicles" }

func toDomainVehicle(m vehicleModel) *domain.Vehicle {
	return &domain.Vehicle{
		ID:            m.ID,
		UserID:        m.UserID,
		PlateNumber:   m.PlateNumber,
		Model:         m.Model,
		BatteryTypeID: m.BatteryTypeID,
		BatteryID:     m.BatteryID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	m := vehicleModel{
		UserID:        v.UserID,
		PlateNumber:   v.PlateNumber,
		Model:         v.Model,
		BatteryTypeID: v.BatteryTypeID,
		BatteryID:     v.BatteryID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*v = *toDomainVehicle(m)
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var m vehicleModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainVehicle(m), nil
}

func (r *VehicleRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error) {
	var ms []vehicleModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Vehicle, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainVehicle(m))
	}
	return out, nil
}

// SetBattery records which battery sits in the vehicle (nil clears it).
func (r *VehicleRepository) SetBattery(ctx context.Context, vehicleID int64, batteryID *int64) error {
	return r.db.WithContext(ctx).
		Model(&vehicleModel{}).
		Where("id = ?", vehicleID).
		Updates(map[string]any{
			"battery_id": batteryID,
			"updated_at": time.Now(),
		}).Error
}
