package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

// Guarded multi-row operations. Everything in this file runs inside a
// single database transaction: either every row changes or none does.
// Status guards in the WHERE clauses double as optimistic checks, so a
// concurrent writer makes the whole transaction roll back instead of
// leaving half-applied state.

var (
	// ErrStateChanged means a status guard matched zero rows: the
	// record moved on since the caller last read it.
	ErrStateChanged = errors.New("record state changed concurrently")
)

// Reserve binds a pending booking to a concrete slot and battery and
// confirms it in one step. The battery flips to reserved, so stock
// queries and dispatch moves cannot hand it to anyone else.
func (r *BookingRepository) Reserve(ctx context.Context, bookingID, slotID, batteryID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", bookingID, string(domain.BookingPending)).
			Updates(map[string]any{
				"status":     string(domain.BookingConfirmed),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}

		res = tx.Model(&batteryModel{}).
			Where("id = ? AND status = ?", batteryID, string(domain.BatteryAvailable)).
			Updates(map[string]any{
				"status":     string(domain.BatteryReserved),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}

		m := bookingSlotModel{
			BookingID: bookingID,
			SlotID:    slotID,
			BatteryID: batteryID,
			Status:    string(domain.BookingConfirmed),
		}
		return tx.Create(&m).Error
	})
}

// Terminate moves a booking to a terminal status and invalidates its
// reservation row, if one exists. A battery held by the reservation
// goes back to available.
func (r *BookingRepository) Terminate(ctx context.Context, bookingID int64, from, to domain.BookingStatus, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":     string(to),
			"updated_at": time.Now(),
		}
		if reason != "" {
			updates["reject_reason"] = reason
		}
		if to == domain.BookingCancelled {
			now := time.Now()
			updates["cancelled_at"] = &now
		}

		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", bookingID, string(from)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}

		var rsv bookingSlotModel
		err := tx.Where("booking_id = ?", bookingID).First(&rsv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // pending booking, nothing reserved
			}
			return err
		}

		// Guarded on reserved so a battery staff pulled into
		// maintenance keeps its status.
		if err := tx.Model(&batteryModel{}).
			Where("id = ? AND status = ?", rsv.BatteryID, string(domain.BatteryReserved)).
			Updates(map[string]any{
				"status":     string(domain.BatteryAvailable),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Model(&bookingSlotModel{}).
			Where("booking_id = ?", bookingID).
			Updates(map[string]any{
				"status":     string(to),
				"updated_at": time.Now(),
			}).Error
	})
}

// SwapExecution carries the validated inputs of one battery exchange.
type SwapExecution struct {
	BookingID    int64
	UserID       int64
	VehicleID    int64
	StationID    int64
	StaffID      int64
	OldBatteryID *int64 // battery currently in the vehicle, nil for a fresh vehicle
	NewBatteryID int64
	NewSlotID    int64 // slot the new battery is docked in
	// ReservedBatteryID is the battery the booking's reservation holds,
	// nil when none. When it differs from NewBatteryID the hold is
	// released as part of the exchange.
	ReservedBatteryID *int64
}

// ExecuteSwap performs the physical exchange: the new battery leaves its
// slot onto the vehicle, the old battery (if any) docks into the freed
// slot, the swap record is written and the booking completes. All rows
// move together or not at all.
func (r *SwapRepository) ExecuteSwap(ctx context.Context, ex SwapExecution) (*domain.BatterySwap, error) {
	var out *domain.BatterySwap

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// New battery: station stock -> vehicle, in use. The booking's
		// own reserved battery is the expected pick; any other battery
		// must still be free stock.
		expected := string(domain.BatteryAvailable)
		if ex.ReservedBatteryID != nil && *ex.ReservedBatteryID == ex.NewBatteryID {
			expected = string(domain.BatteryReserved)
		}
		res := tx.Model(&batteryModel{}).
			Where("id = ? AND station_id = ? AND status = ?",
				ex.NewBatteryID, ex.StationID, expected).
			Updates(map[string]any{
				"station_id": nil,
				"vehicle_id": ex.VehicleID,
				"status":     string(domain.BatteryInUse),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}

		// Staff went off-reservation: release the held battery so it
		// does not stay locked out of stock forever.
		if ex.ReservedBatteryID != nil && *ex.ReservedBatteryID != ex.NewBatteryID {
			if err := tx.Model(&batteryModel{}).
				Where("id = ? AND status = ?", *ex.ReservedBatteryID, string(domain.BatteryReserved)).
				Updates(map[string]any{
					"status":     string(domain.BatteryAvailable),
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		// The slot the new battery occupied.
		res = tx.Model(&slotModel{}).
			Where("id = ? AND battery_id = ? AND status = ?",
				ex.NewSlotID, ex.NewBatteryID, string(domain.SlotOccupied))
		if ex.OldBatteryID != nil {
			// Old battery docks straight into the freed slot.
			res = res.Updates(map[string]any{
				"battery_id": *ex.OldBatteryID,
				"updated_at": now,
			})
		} else {
			res = res.Updates(map[string]any{
				"battery_id": nil,
				"status":     string(domain.SlotAvailable),
				"updated_at": now,
			})
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}

		// Old battery: vehicle -> station, charging.
		if ex.OldBatteryID != nil {
			res = tx.Model(&batteryModel{}).
				Where("id = ? AND vehicle_id = ?", *ex.OldBatteryID, ex.VehicleID).
				Updates(map[string]any{
					"station_id": ex.StationID,
					"vehicle_id": nil,
					"status":     string(domain.BatteryCharging),
					"updated_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return ErrStateChanged
			}
		}

		// Vehicle now carries the new battery.
		if err := tx.Model(&vehicleModel{}).
			Where("id = ?", ex.VehicleID).
			Updates(map[string]any{
				"battery_id": ex.NewBatteryID,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		// Booking completes; reservation row mirrors it.
		res = tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", ex.BookingID, string(domain.BookingConfirmed)).
			Updates(map[string]any{
				"status":     string(domain.BookingCompleted),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}
		if err := tx.Model(&bookingSlotModel{}).
			Where("booking_id = ?", ex.BookingID).
			Updates(map[string]any{
				"status":     string(domain.BookingCompleted),
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		m := swapModel{
			BookingID:   &ex.BookingID,
			UserID:      ex.UserID,
			VehicleID:   ex.VehicleID,
			StationID:   ex.StationID,
			StaffID:     ex.StaffID,
			BatteryID:   ex.OldBatteryID,
			ToBatteryID: ex.NewBatteryID,
			Status:      string(domain.SwapPendingPayment),
			RequestedAt: now,
			SwappedAt:   &now,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		out = toDomainSwap(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransferBattery relocates one docked battery between stations: the
// source slot frees, a destination slot fills, the battery changes
// owner. Returns ErrStateChanged when the world moved under the plan.
func (r *SlotRepository) TransferBattery(ctx context.Context, batteryID, fromStationID, toStationID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var src slotModel
		err := tx.Where("station_id = ? AND battery_id = ?", fromStationID, batteryID).
			First(&src).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStateChanged
			}
			return err
		}

		var dst slotModel
		err = tx.Where("station_id = ? AND status = ?", toStationID, string(domain.SlotAvailable)).
			Order("slot_number").
			First(&dst).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStateChanged
			}
			return err
		}

		res := tx.Model(&batteryModel{}).
			Where("id = ? AND station_id = ? AND status = ?",
				batteryID, fromStationID, string(domain.BatteryAvailable)).
			Updates(map[string]any{
				"station_id": toStationID,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}

		res = tx.Model(&slotModel{}).
			Where("id = ? AND status = ?", src.ID, string(domain.SlotOccupied)).
			Updates(map[string]any{
				"battery_id": nil,
				"status":     string(domain.SlotAvailable),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}

		res = tx.Model(&slotModel{}).
			Where("id = ? AND status = ?", dst.ID, string(domain.SlotAvailable)).
			Updates(map[string]any{
				"battery_id": batteryID,
				"status":     string(domain.SlotOccupied),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStateChanged
		}
		return nil
	})
}
