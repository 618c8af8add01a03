package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

// BookingSlotRepository stores the reservation rows binding a confirmed
// booking to the physical slot and battery held for it.
type BookingSlotRepository struct {
	db *gorm.DB
}

func NewBookingSlotRepository(db *gorm.DB) *BookingSlotRepository {
	return &BookingSlotRepository{db: db}
}

func (r *BookingSlotRepository) WithTx(tx *gorm.DB) *BookingSlotRepository {
	return &BookingSlotRepository{db: tx}
}

type bookingSlotModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	BookingID int64     `gorm:"column:booking_id;uniqueIndex"`
	SlotID    int64     `gorm:"column:slot_id"`
	BatteryID int64     `gorm:"column:battery_id"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingSlotModel) TableName() string { return "battery_booking_slots" }

func toDomainBookingSlot(m bookingSlotModel) *domain.BatteryBookingSlot {
	return &domain.BatteryBookingSlot{
		ID:        m.ID,
		BookingID: m.BookingID,
		SlotID:    m.SlotID,
		BatteryID: m.BatteryID,
		Status:    domain.BookingStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *BookingSlotRepository) Create(ctx context.Context, bs *domain.BatteryBookingSlot) error {
	m := bookingSlotModel{
		BookingID: bs.BookingID,
		SlotID:    bs.SlotID,
		BatteryID: bs.BatteryID,
		Status:    string(bs.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*bs = *toDomainBookingSlot(m)
	return nil
}

func (r *BookingSlotRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.BatteryBookingSlot, error) {
	var m bookingSlotModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainBookingSlot(m), nil
}

func (r *BookingSlotRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&bookingSlotModel{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

func (r *BookingSlotRepository) DeleteByBooking(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&bookingSlotModel{}).Error
}
