package booking

type CreateBookingRequest struct {
	StationID     int64  `json:"station_id" binding:"required"`
	VehicleID     int64  `json:"vehicle_id" binding:"required"`
	BatteryTypeID int64  `json:"battery_type_id" binding:"required"`
	BookingDate   string `json:"booking_date" binding:"required"`
	TimeSlot      string `json:"time_slot" binding:"required"`

	UserID int64 `json:"-"` // filled from the auth context
}

type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

// TimeSlot is one cell of a station's daily grid.
type TimeSlot struct {
	Label       string `json:"label"`
	IsAvailable bool   `json:"is_available"`
	BookingID   *int64 `json:"booking_id,omitempty"`
}

type AvailabilityResponse struct {
	StationID int64      `json:"station_id"`
	Date      string     `json:"date"`
	Slots     []TimeSlot `json:"slots"`
}
