package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/config"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/database"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (child tables first to avoid FK errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM battery_swaps")
	db.Exec("DELETE FROM battery_booking_slots")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM subscriptions")
	db.Exec("DELETE FROM swap_plans")
	db.Exec("DELETE FROM station_battery_slots")
	db.Exec("DELETE FROM batteries")
	db.Exec("DELETE FROM vehicles")
	db.Exec("DELETE FROM stations")
	db.Exec("DELETE FROM battery_types")
	db.Exec("DELETE FROM users")

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	typeRepo := repository.NewBatteryTypeRepository(db)
	batteryRepo := repository.NewBatteryRepository(db)
	stationRepo := repository.NewStationRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@swapnet.vn",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Network Admin",
	}
	must(userRepo.Create(ctx, &admin))
	log.Println("Admin created: admin@swapnet.vn / admin123")

	staffHash, _ := bcrypt.GenerateFromPassword([]byte("staff123"), bcrypt.DefaultCost)
	for i := 1; i <= 3; i++ {
		staff := domain.User{
			Email:        fmt.Sprintf("staff%d@swapnet.vn", i),
			PasswordHash: string(staffHash),
			Role:         domain.RoleStaff,
			Name:         fmt.Sprintf("Station Staff %d", i),
		}
		must(userRepo.Create(ctx, &staff))
	}

	driverHash, _ := bcrypt.GenerateFromPassword([]byte("driver123"), bcrypt.DefaultCost)
	drivers := make([]domain.User, 0, 3)
	for i := 1; i <= 3; i++ {
		driver := domain.User{
			Email:        fmt.Sprintf("driver%d@gmail.com", i),
			PasswordHash: string(driverHash),
			Role:         domain.RoleDriver,
			Name:         fmt.Sprintf("Driver %d", i),
			Phone:        fmt.Sprintf("+84 90 123 45%02d", i),
		}
		must(userRepo.Create(ctx, &driver))
		drivers = append(drivers, driver)
	}

	// ================== BATTERY TYPES ==================
	log.Println("Creating battery types...")

	typeCity := domain.BatteryType{Name: "City 48V", CapacityWh: 1200}
	typeTour := domain.BatteryType{Name: "Touring 60V", CapacityWh: 2100}
	must(typeRepo.Create(ctx, &typeCity))
	must(typeRepo.Create(ctx, &typeTour))

	// ================== STATIONS ==================
	log.Println("Creating stations...")

	stations := []domain.Station{
		{Name: "District 1 Hub", Address: "12 Nguyen Hue", City: "Ho Chi Minh City", Latitude: 10.7743, Longitude: 106.7038, Capacity: 12, IsActive: true},
		{Name: "Binh Thanh Depot", Address: "208 Xo Viet Nghe Tinh", City: "Ho Chi Minh City", Latitude: 10.8012, Longitude: 106.7109, Capacity: 8, IsActive: true},
		{Name: "Thu Duc Corner", Address: "1 Vo Van Ngan", City: "Ho Chi Minh City", Latitude: 10.8506, Longitude: 106.7719, Capacity: 6, IsActive: true},
	}
	for i := range stations {
		must(stationRepo.CreateWithSlots(ctx, &stations[i]))
	}

	// ================== BATTERIES ==================
	// Each station starts two-thirds full of charged City packs plus a
	// couple of Touring packs at the hub.
	log.Println("Creating batteries...")

	serial := 1000
	for i := range stations {
		st := stations[i]
		count := st.Capacity * 2 / 3
		for k := 0; k < count; k++ {
			serial++
			typeID := typeCity.ID
			if i == 0 && k < 2 {
				typeID = typeTour.ID
			}
			stID := st.ID
			b := domain.Battery{
				SerialNumber:  fmt.Sprintf("BAT-%d", serial),
				BatteryTypeID: typeID,
				CapacityWh:    1200,
				ChargeWh:      900 + (k%4)*75,
				Status:        domain.BatteryAvailable,
				StationID:     &stID,
			}
			must(batteryRepo.Create(ctx, &b))

			slot, err := slotRepo.FindFreeSlot(ctx, st.ID)
			must(err)
			ok, err := slotRepo.Occupy(ctx, slot.ID, b.ID)
			must(err)
			if !ok {
				log.Fatalf("slot %d already taken", slot.ID)
			}
		}
	}

	// ================== VEHICLES ==================
	log.Println("Creating vehicles...")

	for i, d := range drivers {
		must(vehicleRepo.Create(ctx, &domain.Vehicle{
			UserID:        d.ID,
			PlateNumber:   fmt.Sprintf("59-X1 %03d.%02d", 100+i, 25),
			Model:         "Klara S",
			BatteryTypeID: typeCity.ID,
		}))
	}

	// ================== SWAP PLANS ==================
	log.Println("Creating swap plans...")

	plans := []domain.SwapPlan{
		{ID: domain.PlanPayPerSwap, Name: "Pay per swap", SwapsPerMonth: 0, PriceMonthly: 0, IsActive: true},
		{ID: domain.PlanCommuter, Name: "Commuter", SwapsPerMonth: 30, PriceMonthly: 12.50, IsActive: true},
		{ID: domain.PlanUnlimited, Name: "Unlimited", SwapsPerMonth: -1, PriceMonthly: 29.90, IsActive: true},
	}
	for i := range plans {
		must(subscriptionRepo.UpsertPlan(ctx, &plans[i]))
	}

	log.Println("Seed completed")
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
