package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

type bookingModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	StationID     int64      `gorm:"column:station_id;index:idx_station_date_slot"`
	UserID        int64      `gorm:"column:user_id;index"`
	VehicleID     int64      `gorm:"column:vehicle_id"`
	BatteryTypeID int64      `gorm:"column:battery_type_id"`
	BookingDate   string     `gorm:"column:booking_date;index:idx_station_date_slot"`
	TimeSlot      string     `gorm:"column:time_slot;index:idx_station_date_slot"`
	Status        string     `gorm:"column:status"`
	RejectReason  *string    `gorm:"column:reject_reason"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var reason string
	if m.RejectReason != nil {
		reason = *m.RejectReason
	}

	return &domain.Booking{
		ID:            m.ID,
		StationID:     m.StationID,
		UserID:        m.UserID,
		VehicleID:     m.VehicleID,
		BatteryTypeID: m.BatteryTypeID,
		BookingDate:   m.BookingDate,
		TimeSlot:      m.TimeSlot,
		Status:        domain.BookingStatus(m.Status),
		RejectReason:  reason,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CancelledAt:   m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var reason *string
	if b.RejectReason != "" {
		v := b.RejectReason
		reason = &v
	}

	return bookingModel{
		ID:            b.ID,
		StationID:     b.StationID,
		UserID:        b.UserID,
		VehicleID:     b.VehicleID,
		BatteryTypeID: b.BatteryTypeID,
		BookingDate:   b.BookingDate,
		TimeSlot:      b.TimeSlot,
		Status:        string(b.Status),
		RejectReason:  reason,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		CancelledAt:   b.CancelledAt,
	}
}

var nonTerminalStatuses = []string{
	string(domain.BookingPending),
	string(domain.BookingConfirmed),
}

// Create inserts the booking after re-checking grid-cell exclusivity
// inside one transaction. A race between two inserts for the same
// (station, date, slot) leaves exactly one row and ErrSlotTaken for the
// loser.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&bookingModel{}).
			Where("station_id = ? AND booking_date = ? AND time_slot = ?",
				b.StationID, b.BookingDate, b.TimeSlot).
			Where("status IN ?", nonTerminalStatuses).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotTaken
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*b = *toDomainBooking(m)
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainBooking(m), nil
}

// GetReservation returns the slot/battery reservation row of a booking.
func (r *BookingRepository) GetReservation(ctx context.Context, bookingID int64) (*domain.BatteryBookingSlot, error) {
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

// UpdateStatus performs a guarded transition: the row only changes if it
// is still in the expected current status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	if to == domain.BookingCancelled {
		now := time.Now()
		updates["cancelled_at"] = &now
	}

	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingRepository) SetRejectReason(ctx context.Context, id int64, reason string) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reject_reason": reason,
			"updated_at":    time.Now(),
		}).Error
}

// ActiveByStationDate returns the non-terminal bookings occupying grid
// cells on a given day, ordered by slot label.
func (r *BookingRepository) ActiveByStationDate(ctx context.Context, stationID int64, date string) ([]domain.Booking, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND booking_date = ?", stationID, date).
		Where("status IN ?", nonTerminalStatuses).
		Order("time_slot").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListByStation(ctx context.Context, stationID int64, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("booking_date DESC, time_slot").
		Limit(limit).Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
