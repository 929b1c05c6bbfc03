package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"hirescore/internal/api/handlers"
	"hirescore/internal/api/routes"
	"hirescore/internal/applications"
	"hirescore/internal/auth"
	"hirescore/internal/background"
	"hirescore/internal/config"
	"hirescore/internal/events"
	"hirescore/internal/grpc/interceptors"
	"hirescore/internal/grpc/server"
	"hirescore/internal/jobs"
	"hirescore/internal/llm"
	"hirescore/internal/logging"
	"hirescore/internal/mux"
	"hirescore/internal/notify"
	"hirescore/internal/store"
)

const (
	shutdownTimeout      = 30 * time.Second
	sessionCleanupPeriod = time.Hour
	healthProbePeriod    = 15 * time.Second
	metricsSummaryPeriod = 5 * time.Minute
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting HireScore")

	ctx := context.Background()

	db, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to apply database schema", map[string]interface{}{"error": err.Error()})
		}
	}

	llmManager := llm.NewManager(cfg, logger)
	if err := llmManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	publisher, err := events.NewPublisher(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create event publisher", map[string]interface{}{"error": err.Error()})
	}

	sender, err := notify.NewSender(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create email sender", map[string]interface{}{"error": err.Error()})
	}
	notifier := notify.NewNotifier(cfg, sender, logger)

	taskManager := background.NewTaskManager(cfg, logger)
	if err := taskManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start task manager", map[string]interface{}{"error": err.Error()})
	}

	authService := auth.NewService(cfg, db, logger)
	jobService := jobs.NewService(db, logger)
	applicationService := applications.NewService(cfg, db, llmManager, notifier, taskManager, publisher, logger)

	readiness := map[string]handlers.HealthCheck{
		"database":      db.Ping,
		"redis":         publisher.Ping,
		"llm":           llmManager.CheckHealth,
		"notifications": taskManager.CheckHealth,
	}

	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, routes.Dependencies{
		Config:          cfg,
		Auth:            authService,
		Jobs:            jobService,
		Applications:    applicationService,
		ReadinessChecks: readiness,
	})

	grpcChecks := make(map[string]server.Check, len(readiness))
	for name, check := range readiness {
		grpcChecks[name] = server.Check(check)
	}
	grpcServer := server.NewServer(cfg, grpcChecks, logger)
	if err := grpcServer.RefreshHealth(ctx); err != nil {
		logger.Warn("Starting with unhealthy dependencies", map[string]interface{}{"error": err.Error()})
	}

	taskManager.SchedulePeriodic(background.TaskTypeSessionCleanup, sessionCleanupPeriod, authService.CleanupExpiredSessions)
	taskManager.SchedulePeriodic(background.TaskType("grpc_health_probe"), healthProbePeriod, grpcServer.RefreshHealth)
	taskManager.SchedulePeriodic(background.TaskType("grpc_metrics_summary"), metricsSummaryPeriod, interceptors.LogMetricsSummary)

	multiplexer := mux.NewMultiplexer(cfg, grpcServer, e, logger)
	if err := multiplexer.Start(cfg.Address()); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Server started", map[string]interface{}{"address": cfg.Address()})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop taking requests first so no new notifications are queued
	if err := multiplexer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping server", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Stopping background task manager...")
	if err := taskManager.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping task manager", map[string]interface{}{"error": err.Error()})
	}

	if err := llmManager.Stop(); err != nil {
		logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
	}
	if err := publisher.Close(); err != nil {
		logger.Error("Error closing event publisher", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Server shutdown complete")
}
