package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iyfinance/leads-api/internal/auth"
	"github.com/iyfinance/leads-api/internal/config"
	"github.com/iyfinance/leads-api/internal/database"
	"github.com/iyfinance/leads-api/internal/http/handler"
	"github.com/iyfinance/leads-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/iyfinance/leads-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	leadHandler         *handler.LeadHandler
	agentHandler        *handler.AgentHandler
	reportHandler       *handler.ReportHandler
	serviceHandler      *handler.ServiceHandler
	notificationHandler *handler.NotificationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	leadHandler *handler.LeadHandler,
	agentHandler *handler.AgentHandler,
	reportHandler *handler.ReportHandler,
	serviceHandler *handler.ServiceHandler,
	notificationHandler *handler.NotificationHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		leadHandler:         leadHandler,
		agentHandler:        agentHandler,
		reportHandler:       reportHandler,
		serviceHandler:      serviceHandler,
		notificationHandler: notificationHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/register", rt.authHandler.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)
			r.Post("/auth/logout", rt.authHandler.Logout)

			// Leads
			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.leadHandler.List)
				r.Post("/", rt.leadHandler.Create)
				r.With(rt.authMiddleware.RequireManager).Get("/export", rt.leadHandler.Export)
				r.Get("/{id}", rt.leadHandler.GetByID)
				r.Put("/{id}", rt.leadHandler.Update)
				r.With(rt.authMiddleware.RequireManager).Delete("/{id}", rt.leadHandler.Delete)
				r.Put("/{id}/status", rt.leadHandler.UpdateStatus)
				r.With(rt.authMiddleware.RequireManager).Put("/{id}/assign", rt.leadHandler.Assign)
				r.Post("/{id}/notes", rt.leadHandler.AddNote)
				r.Get("/{id}/bank-details", rt.leadHandler.GetBankDetails)
				r.Put("/{id}/bank-details", rt.leadHandler.UpsertBankDetails)
			})

			// Services catalog
			r.Route("/services", func(r chi.Router) {
				r.Get("/", rt.serviceHandler.List)
				r.Get("/{id}", rt.serviceHandler.GetByID)
			})

			// Reports
			r.Route("/reports", func(r chi.Router) {
				r.Get("/dashboard", rt.reportHandler.Dashboard)
				r.With(rt.authMiddleware.RequireManager).Get("/", rt.reportHandler.Report)
				r.With(rt.authMiddleware.RequireManager).Get("/export", rt.reportHandler.Export)
			})

			// Agent management (manager only)
			r.Route("/agents", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireManager)
				r.Get("/", rt.agentHandler.List)
				r.Post("/", rt.agentHandler.Create)
				r.Get("/{id}", rt.agentHandler.GetByID)
				r.Put("/{id}", rt.agentHandler.Update)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/count", rt.notificationHandler.GetUnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
			})
		})
	})

	return r
}
