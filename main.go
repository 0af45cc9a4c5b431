package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetbooking/config"
	"fleetbooking/cron"
	"fleetbooking/database"
	recordsRepo "fleetbooking/database/repository/records"
	sessionRepo "fleetbooking/database/repository/session"
	"fleetbooking/handlers"
	"fleetbooking/metrics"
	"fleetbooking/middleware"
	"fleetbooking/routes"
	"fleetbooking/services/booking"
	"fleetbooking/services/fleet"
	"fleetbooking/services/notification"
	"fleetbooking/services/tasks"
	"fleetbooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET is required")
	}
	if config.AppConfig.FleetAPIBaseURL == "" {
		logger.Fatal("main: FLEET_API_BASE_URL is required")
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	database.InitDB()
	redisClient := utils.GetSessionCacheClient()

	// repositories.
	store := sessionRepo.NewRedisSessionStore(redisClient, config.AppConfig.SessionTTL, config.AppConfig.SubmitLockTTL)
	var records recordsRepo.SubmissionRecordRepository
	if db := database.Database(); db != nil {
		records = recordsRepo.NewMongoRecordRepo(db)
	} else {
		records = recordsRepo.NewMemoryRecordRepo()
	}

	// notifications and reminders.
	var notifier notification.NotificationService = &notification.LogNotificationService{Logger: logger}
	if creds := config.AppConfig.FirebaseCredentialsFile; creds != "" {
		fcm, err := notification.NewFCMNotificationService(rootCtx, creds, logger)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase messaging", zap.Error(err))
		}
		notifier = fcm
	}

	queueOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	reminders := tasks.NewAsynqReminderScheduler(queueOpts)
	defer func() { _ = reminders.Close() }()
	worker := cron.InitReminderWorker(queueOpts, notifier, logger)

	// metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// services.
	fleetClient := fleet.NewClient(config.AppConfig.FleetAPIBaseURL, config.AppConfig.FleetAPITimeout, logger)
	wizard := &booking.DefaultBookingWizardService{
		Store:     store,
		Fleet:     fleetClient,
		Records:   records,
		Notifier:  notifier,
		Reminders: reminders,
		Metrics:   bookingMetrics,
		Logger:    logger,
		Options: booking.Options{
			BookingsListPath: config.AppConfig.BookingsListPath,
			SubmitTimeout:    config.AppConfig.FleetAPITimeout,
			SubmitLockTTL:    store.LockTTL(),
			ReminderLeadTime: config.AppConfig.ReminderLeadTime,
			Location:         config.BookingLocation(),
		},
	}

	if err := wizard.Options.Validate(); err != nil {
		logger.Fatal("main: invalid booking options, check FLEET_API_TIMEOUT and SUBMIT_LOCK_TTL", zap.Error(err))
	}

	utils.StartHealthMonitor(rootCtx, redisClient, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(wizard, logger),
		handlers.NewHealthHandler(),
	)
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		AllowedOrigins: config.AppConfig.AllowedOrigins,
		Auth:           middleware.JWTAuthMiddleware([]byte(config.AppConfig.JWTSecret)),
		Gatherer:       registry,
	})

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("main: starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	if database.MongoClient != nil {
		if err := database.MongoClient.Disconnect(ctx); err != nil {
			logger.Warn("main: mongo disconnect failed", zap.Error(err))
		}
	}
	if err := redisClient.Close(); err != nil {
		logger.Warn("main: redis close failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
