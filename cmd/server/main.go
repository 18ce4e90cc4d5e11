package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"marketplace/internal/app"
	"marketplace/internal/config"
	"marketplace/internal/handler"
	internalRedis "marketplace/internal/redis"
	"marketplace/internal/repository/postgres"
	"marketplace/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	vehicleRepo := postgres.NewVehicleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	providerRepo := postgres.NewProviderRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	busRepo := postgres.NewBusRepository(db)
	detailingServiceRepo := postgres.NewDetailingServiceRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService(notificationRepo)
	carsharingService := service.NewCarsharingService(db, vehicleRepo, bookingRepo, lockStore, locationStore, cacheStore, notificationService, cfg.Marketplace)
	detailingService := service.NewDetailingService(detailingServiceRepo, providerRepo, bookingRepo, lockStore, locationStore, notificationService, cfg.Marketplace)
	busService := service.NewBusService(db, busRepo, bookingRepo, lockStore, notificationService, cfg.Marketplace)
	bookingService := service.NewBookingService(db, bookingRepo, vehicleRepo, busRepo, notificationService, cfg.Marketplace)
	reviewService := service.NewReviewService(db, reviewRepo, bookingRepo, driverRepo, providerRepo)
	paymentService := service.NewPaymentService(db, paymentRepo, bookingRepo, &service.MockPSP{}, notificationService, cfg.Marketplace)

	// Initialize handlers.
	carsharingHandler := handler.NewCarsharingHandler(carsharingService)
	detailingHandler := handler.NewDetailingHandler(detailingService)
	busHandler := handler.NewBusHandler(busService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CarsharingHandler:   carsharingHandler,
		DetailingHandler:    detailingHandler,
		BusHandler:          busHandler,
		BookingHandler:      bookingHandler,
		ReviewHandler:       reviewHandler,
		PaymentHandler:      paymentHandler,
		NotificationHandler: notificationHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
