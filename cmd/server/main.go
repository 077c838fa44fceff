package main

import (
	"context"
	"time"

	bookingsrepo "slotline/internal/bookings/repository"
	"slotline/internal/events"
	"slotline/internal/gateway"
	lifecycleservice "slotline/internal/lifecycle/service"
	"slotline/internal/lifecycle/validator"
	"slotline/internal/server/handler"
	slotsrepo "slotline/internal/slots/repository"
	slotsservice "slotline/internal/slots/service"
	"slotline/pkg/app"
	"slotline/pkg/auth"
	"slotline/pkg/config"
)

const ServiceName = "slotline"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting slotline service")

	slotRepo := slotsrepo.NewMongoSlotRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	ensureIndexes(cfg, slotRepo, bookingRepo)

	publisher := newPublisher(cfg)
	gatewayClient := gateway.New(cfg.JazzStoreID, cfg.JazzPassword, cfg.JazzReturnURL)
	authenticator := auth.NewAuthenticator(cfg.AdminUser, cfg.AdminPass, cfg.AdminJWTSecret, cfg.AdminTokenTTL)

	slotService := slotsservice.NewSlotService(slotRepo, cfg)
	lifecycleService := lifecycleservice.NewLifecycleService(
		slotRepo,
		bookingRepo,
		validator.New(),
		gatewayClient,
		publisher,
		cfg,
	)

	sweeper := lifecycleservice.NewSweeper(lifecycleService, cfg.HoldSweepInterval, cfg.Log)
	sweeper.Start()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewSlotHandler(slotService, cfg.Log),
		handler.NewBookingHandler(lifecycleService, cfg.Log),
		handler.NewAdminHandler(lifecycleService, authenticator, cfg.Log),
	)
	serverApp.AddWorker(sweeper)
	serverApp.AddWorker(app.WorkerFunc(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}))

	serverApp.Run()
}

// ensureIndexes creates the unique and query indexes both repositories rely
// on. The hold path's correctness depends on the unique (date, hour) index,
// so a failure here is fatal.
func ensureIndexes(cfg *config.Config, slotRepo slotsrepo.SlotRepository, bookingRepo bookingsrepo.BookingRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := slotRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create slot indexes", "error", err)
	}
	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}
	cfg.Log.Info("Database indexes ensured", "database", cfg.MongoDatabaseName)
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, lifecycle events disabled")
		return events.NewNoopPublisher()
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaBookingTopic, ServiceName, cfg.Log)
}
