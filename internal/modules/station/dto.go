package station

type CreateStationRequest struct {
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Capacity  int     `json:"capacity" binding:"required,gt=0"`
}

type OccupySlotRequest struct {
	BatteryID int64 `json:"battery_id" binding:"required"`
}

// InventoryLine is one (battery type, status) bucket of a station's
// battery inventory.
type InventoryLine struct {
	BatteryTypeID int64  `json:"battery_type_id"`
	Status        string `json:"status"`
	Count         int    `json:"count"`
}

type StationSummary struct {
	StationID  int64           `json:"station_id"`
	TotalSlots int             `json:"total_slots"`
	FreeSlots  int             `json:"free_slots"`
	Inventory  []InventoryLine `json:"inventory"`
}

// ResetResult reports what a reconciliation pass actually changed.
// A second pass over the same station reports all zeroes.
type ResetResult struct {
	StationID int64 `json:"station_id"`
	Cleared   int   `json:"cleared"`
	Docked    int   `json:"docked"`
}
