package repository

import "gorm.io/gorm"

// Migrate applies the schema for every table the swap network owns.
// It lives here because the gorm models do.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&vehicleModel{},
		&batteryTypeModel{},
		&batteryModel{},
		&stationModel{},
		&slotModel{},
		&bookingModel{},
		&bookingSlotModel{},
		&swapModel{},
		&swapPlanModel{},
		&subscriptionModel{},
	)
}
