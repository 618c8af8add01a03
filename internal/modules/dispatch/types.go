package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Move ships a batch of batteries of one type between two stations.
// BatteryIDs are the concrete units picked at planning time, lowest
// charge first, so full batteries stay available for swaps.
type Move struct {
	ID            uuid.UUID `json:"id"`
	FromStationID int64     `json:"from_station_id"`
	ToStationID   int64     `json:"to_station_id"`
	BatteryTypeID int64     `json:"battery_type_id"`
	Count         int       `json:"count"`
	BatteryIDs    []int64   `json:"battery_ids"`
}

// DispatchPlan is a point-in-time rebalancing proposal. Station state
// keeps changing underneath it, so it expires and can run only once.
type DispatchPlan struct {
	ID        uuid.UUID `json:"id"`
	Threshold int       `json:"threshold"`
	Moves     []Move    `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
}

// MoveResult reports how one move of an executed plan went. Moved can
// be lower than Requested when some batteries changed hands between
// planning and execution.
type MoveResult struct {
	MoveID    uuid.UUID `json:"move_id"`
	Requested int       `json:"requested"`
	Moved     int       `json:"moved"`
	Error     string    `json:"error,omitempty"`
}

// stationLoad is one station's standing for a single battery type.
type stationLoad struct {
	StationID int64
	Available int
	FreeSlots int
	Latitude  float64
	Longitude float64
}
