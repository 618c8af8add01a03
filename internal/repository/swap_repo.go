package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type SwapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) *SwapRepository {
	return &SwapRepository{db: db}
}

func (r *SwapRepository) WithTx(tx *gorm.DB) *SwapRepository {
	return &SwapRepository{db: tx}
}

type swapModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	BookingID   *int64     `gorm:"column:booking_id;index"`
	UserID      int64      `gorm:"column:user_id;index"`
	VehicleID   int64      `gorm:"column:vehicle_id"`
	StationID   int64      `gorm:"column:station_id"`
	StaffID     int64      `gorm:"column:staff_id"`
	BatteryID   *int64     `gorm:"column:battery_id"`
	ToBatteryID int64      `gorm:"column:to_battery_id"`
	PaymentID   *int64     `gorm:"column:payment_id"`
	Status      string     `gorm:"column:status"`
	RequestedAt time.Time  `gorm:"column:requested_at"`
	SwappedAt   *time.Time `gorm:"column:swapped_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (swapModel) TableName() string { return "battery_swaps" }

func toDomainSwap(m swapModel) *domain.BatterySwap {
	return &domain.BatterySwap{
		ID:          m.ID,
		BookingID:   m.BookingID,
		UserID:      m.UserID,
		VehicleID:   m.VehicleID,
		StationID:   m.StationID,
		StaffID:     m.StaffID,
		BatteryID:   m.BatteryID,
		ToBatteryID: m.ToBatteryID,
		PaymentID:   m.PaymentID,
		Status:      domain.SwapStatus(m.Status),
		RequestedAt: m.RequestedAt,
		SwappedAt:   m.SwappedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toSwapModel(s *domain.BatterySwap) swapModel {
	return swapModel{
		ID:          s.ID,
		BookingID:   s.BookingID,
		UserID:      s.UserID,
		VehicleID:   s.VehicleID,
		StationID:   s.StationID,
		StaffID:     s.StaffID,
		BatteryID:   s.BatteryID,
		ToBatteryID: s.ToBatteryID,
		PaymentID:   s.PaymentID,
		Status:      string(s.Status),
		RequestedAt: s.RequestedAt,
		SwappedAt:   s.SwappedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *SwapRepository) Create(ctx context.Context, s *domain.BatterySwap) error {
	m := toSwapModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = *toDomainSwap(m)
	return nil
}

func (r *SwapRepository) GetByID(ctx context.Context, id int64) (*domain.BatterySwap, error) {
	var m swapModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainSwap(m), nil
}

func (r *SwapRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.SwapStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&swapModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SwapRepository) SetPayment(ctx context.Context, id, paymentID int64) error {
	return r.db.WithContext(ctx).
		Model(&swapModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_id": paymentID,
			"updated_at": time.Now(),
		}).Error
}

func (r *SwapRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.BatterySwap, error) {
	var ms []swapModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.BatterySwap, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainSwap(m))
	}
	return out, nil
}
