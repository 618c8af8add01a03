package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type BatteryTypeRepository struct {
	db *gorm.DB
}

func NewBatteryTypeRepository(db *gorm.DB) *BatteryTypeRepository {
	return &BatteryTypeRepository{db: db}
}

type batteryTypeModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name;uniqueIndex"`
	CapacityWh int       `gorm:"column:capacity_wh"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (batteryTypeModel) TableName() string { return "battery_types" }

func (r *BatteryTypeRepository) Create(ctx context.Context, t *domain.BatteryType) error {
	m := batteryTypeModel{Name: t.Name, CapacityWh: t.CapacityWh}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	return nil
}

func (r *BatteryTypeRepository) GetByID(ctx context.Context, id int64) (*domain.BatteryType, error) {
	var m batteryTypeModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &domain.BatteryType{
		ID:         m.ID,
		Name:       m.Name,
		CapacityWh: m.CapacityWh,
		CreatedAt:  m.CreatedAt,
	}, nil
}

func (r *BatteryTypeRepository) List(ctx context.Context) ([]domain.BatteryType, error) {
	var ms []batteryTypeModel
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.BatteryType, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.BatteryType{
			ID:         m.ID,
			Name:       m.Name,
			CapacityWh: m.CapacityWh,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}
