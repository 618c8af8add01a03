package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/config"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/database"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/station"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/subscription"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/pkg/stationlock"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/scheduler"
)

// One-shot maintenance pass for cron setups that do not want the
// in-process scheduler.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	stationService := station.NewService(
		repository.NewStationRepository(db),
		repository.NewSlotRepository(db),
		repository.NewBatteryRepository(db),
		stationlock.New(),
		nil,
	)
	subscriptionService := subscription.NewService(repository.NewSubscriptionRepository(db))

	sched := scheduler.New(stationService, stationService, subscriptionService,
		cfg.ReconcileInterval, cfg.ReconcileRetry, logger)

	if err := sched.RunOnce(context.Background()); err != nil {
		log.Fatalf("maintenance pass failed: %v", err)
	}
}
