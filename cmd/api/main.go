package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/config"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/database"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/middleware"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/auth"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/booking"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/dispatch"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/monitor"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/station"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/subscription"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/modules/swap"
	jwtsvc "github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/pkg/jwt"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/pkg/stationlock"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/scheduler"
)

// quotaAdapter bridges the subscription allowance into the swap module's
// error vocabulary.
type quotaAdapter struct {
	subs *subscription.Service
}

func (q quotaAdapter) RefundSwap(ctx context.Context, userID int64) error {
	return q.subs.RefundSwap(ctx, userID)
}

func (q quotaAdapter) ConsumeSwap(ctx context.Context, userID int64) error {
	err := q.subs.ConsumeSwap(ctx, userID)
	if errors.Is(err, subscription.ErrQuotaExceeded) {
		return swap.ErrQuotaExceeded
	}
	return err
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	batteryTypeRepo := repository.NewBatteryTypeRepository(db)
	batteryRepo := repository.NewBatteryRepository(db)
	stationRepo := repository.NewStationRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)
	locks := stationlock.New()
	hub := monitor.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, vehicleRepo, batteryTypeRepo, j)
	authHandler := auth.NewHandler(authService)

	stationService := station.NewService(stationRepo, slotRepo, batteryRepo, locks, hub)
	stationHandler := station.NewHandler(stationService)

	bookingService := booking.NewService(bookingRepo, stationRepo, vehicleRepo, batteryRepo, slotRepo, locks, hub)
	bookingHandler := booking.NewHandler(bookingService)

	subscriptionService := subscription.NewService(subscriptionRepo)
	subscriptionHandler := subscription.NewHandler(subscriptionService)

	swapService := swap.NewService(swapRepo, bookingRepo, batteryRepo, slotRepo, vehicleRepo, locks, hub,
		quotaAdapter{subs: subscriptionService})
	swapHandler := swap.NewHandler(swapService)

	planStore := dispatch.NewPlanStore(10 * time.Minute)
	dispatchService := dispatch.NewService(stationRepo, batteryRepo, slotRepo, locks, planStore, cfg.RebalanceThreshold, logger)
	dispatchHandler := dispatch.NewHandler(dispatchService)

	monitorHandler := monitor.NewHandler(hub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(stationService, stationService, subscriptionService,
		cfg.ReconcileInterval, cfg.ReconcileRetry, logger)
	go sched.Run(ctx)

	r := gin.Default()

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterRoutes(protected)
			stationHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			swapHandler.RegisterRoutes(protected)
			subscriptionHandler.RegisterRoutes(protected)
			dispatchHandler.RegisterRoutes(protected)
			monitorHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
