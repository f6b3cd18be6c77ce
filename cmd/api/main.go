package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyfinance/leads-api/docs"
	"github.com/iyfinance/leads-api/internal/auth"
	"github.com/iyfinance/leads-api/internal/config"
	"github.com/iyfinance/leads-api/internal/database"
	"github.com/iyfinance/leads-api/internal/http/handler"
	"github.com/iyfinance/leads-api/internal/http/middleware"
	"github.com/iyfinance/leads-api/internal/http/router"
	"github.com/iyfinance/leads-api/internal/jobs"
	"github.com/iyfinance/leads-api/internal/logger"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/iyfinance/leads-api/internal/service"
	"github.com/iyfinance/leads-api/internal/storage"
	"go.uber.org/zap"
)

// @title IY Finance Leads API
// @version 1.0
// @description Lead management API for capturing, tracking and reporting on financial-services client leads
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@iyfinance.co.za

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "leads-api-staging.iyfinance.co.za"
	case "production":
		docs.SwaggerInfo.Host = "leads-api.iyfinance.co.za"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize export archive storage (optional)
	archive, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if archive != nil {
		log.Info("Export archive storage initialized", zap.String("mode", cfg.Storage.Mode))
	}

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(db)
	userRepo := repository.NewUserRepository(db)
	bankDetailsRepo := repository.NewBankDetailsRepository(db)
	sequenceRepo := repository.NewLeadSequenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	tokenManager := auth.NewTokenManager(&cfg.Auth)
	leadNumberService := service.NewLeadNumberService(sequenceRepo, log)
	leadService := service.NewLeadService(leadRepo, userRepo, bankDetailsRepo, leadNumberService, log)
	authService := service.NewAuthService(userRepo, tokenManager, log)
	userService := service.NewUserService(userRepo, log)
	reportService := service.NewReportService(leadRepo, userRepo, log)
	exportService := service.NewExportService(archive, log)
	notificationService := service.NewNotificationService(notificationRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenManager, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	leadHandler := handler.NewLeadHandler(leadService, userService, exportService, log)
	agentHandler := handler.NewAgentHandler(userService, log)
	reportHandler := handler.NewReportHandler(reportService, exportService, log)
	serviceHandler := handler.NewServiceHandler()
	notificationHandler := handler.NewNotificationHandler(notificationService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		leadHandler,
		agentHandler,
		reportHandler,
		serviceHandler,
		notificationHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.FollowUpEnabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterFollowUpJob(
			scheduler,
			leadRepo,
			notificationService,
			log,
			cfg.Jobs.FollowUpCron,
			cfg.Jobs.FollowUpTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register follow-up job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with follow-up job",
				zap.String("cron_expr", cfg.Jobs.FollowUpCron),
				zap.Duration("timeout", cfg.Jobs.FollowUpTimeoutDuration()),
			)
		}
	} else {
		log.Info("Follow-up reminder job disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
