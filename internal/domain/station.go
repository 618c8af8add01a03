package domain

import "time"

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotOccupied    SlotStatus = "occupied"
	SlotMaintenance SlotStatus = "maintenance"
	SlotDisabled    SlotStatus = "disabled"
)

type Station struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name" validate:"required"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Capacity  int        `json:"capacity" validate:"required,gt=0"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// StationBatterySlot is a physical docking position at a station.
// A slot referencing a battery must be occupied; a slot without a
// battery is never occupied.
type StationBatterySlot struct {
	ID         int64      `json:"id"`
	StationID  int64      `json:"station_id"`
	SlotNumber int        `json:"slot_number"`
	BatteryID  *int64     `json:"battery_id,omitempty"`
	Status     SlotStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Consistent reports whether battery presence agrees with slot status.
func (s *StationBatterySlot) Consistent() bool {
	if s.BatteryID != nil {
		return s.Status == SlotOccupied
	}
	return s.Status != SlotOccupied
}
