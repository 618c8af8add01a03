package domain

import "time"

type BatteryStatus string

const (
	BatteryAvailable BatteryStatus = "available"
	// BatteryReserved is held for a confirmed booking: still docked,
	// but invisible to stock queries and dispatch moves.
	BatteryReserved    BatteryStatus = "reserved"
	BatteryInUse       BatteryStatus = "in_use"
	BatteryCharging    BatteryStatus = "charging"
	BatteryMaintenance BatteryStatus = "maintenance"
	BatteryDamaged     BatteryStatus = "damaged"
)

type BatteryType struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name" validate:"required"`
	CapacityWh int       `json:"capacity_wh" validate:"required,gt=0"`
	CreatedAt  time.Time `json:"created_at"`
}

// Battery belongs either to a station or to a vehicle, never both.
type Battery struct {
	ID            int64         `json:"id"`
	SerialNumber  string        `json:"serial_number" validate:"required"`
	BatteryTypeID int64         `json:"battery_type_id" validate:"required"`
	CapacityWh    int           `json:"capacity_wh"`
	ChargeWh      int           `json:"charge_wh"`
	Status        BatteryStatus `json:"status"`
	StationID     *int64        `json:"station_id,omitempty"`
	VehicleID     *int64        `json:"vehicle_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Dockable reports whether the battery may sit in a station slot.
func (b *Battery) Dockable() bool {
	return b.Status == BatteryAvailable || b.Status == BatteryCharging
}

// OwnershipValid checks the station-XOR-vehicle ownership rule.
func (b *Battery) OwnershipValid() bool {
	return !(b.StationID != nil && b.VehicleID != nil)
}
