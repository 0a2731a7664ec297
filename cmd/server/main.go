package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anyidea-app/anyidea/internal/config"
	"github.com/anyidea-app/anyidea/internal/database"
	"github.com/anyidea-app/anyidea/internal/handlers"
	"github.com/anyidea-app/anyidea/internal/logging"
	"github.com/anyidea-app/anyidea/internal/middleware"
	"github.com/anyidea-app/anyidea/internal/scheduler"
	"github.com/anyidea-app/anyidea/internal/services"
	"github.com/anyidea-app/anyidea/internal/services/ai"
	"github.com/anyidea-app/anyidea/internal/services/weather"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	// Initialize logger
	logger := logging.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := logging.ParseLevel(cfg.Server.LogLevel)
	logger.SetLevel(level)
	logging.SetDefaultLevel(level)

	logger.Info("Starting AnyIdea server...", map[string]interface{}{
		"env": cfg.Server.Environment,
	})

	// Connect to PostgreSQL
	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Run migrations
	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	// Connect to Redis
	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	// Initialize services
	dbAdapter := services.NewPoolAdapter(db.Pool)

	userService := services.NewUserService(dbAdapter)
	categoryService := services.NewCategoryService(dbAdapter, userService)
	historyService := services.NewHistoryService(dbAdapter, userService)
	popularService := services.NewPopularService(dbAdapter)
	weatherService := weather.NewService(cfg)
	aiService := ai.NewService(cfg)
	rules := services.NewRuleBasedGenerator()
	suggestService := services.NewSuggestService(weatherService, aiService, rules, historyService)

	// Popularity aggregates refresh in the background
	sched := scheduler.New()
	if _, err := sched.SchedulePopularRefresh(popularService, cfg.Jobs.PopularRefreshInterval); err != nil {
		return fmt.Errorf("scheduling popularity refresh: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisDB, weatherService, aiService, cfg.Server.Environment)
	statusHandler := handlers.NewStatusHandler(weatherService, aiService, cfg.Integrations)
	suggestHandler := handlers.NewSuggestHandler(suggestService)
	activitiesHandler := handlers.NewActivitiesHandler(categoryService, popularService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// Initialize middleware
	session := middleware.NewSession()
	cors := middleware.NewCORS(cfg.Server.AllowedOrigins)
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	requestLogger := middleware.NewRequestLogger(logger)
	suggestLimiter := middleware.NewSuggestRateLimiter(redisDB.Client, cfg.Server.SuggestPerMin)

	// Set up router
	mux := http.NewServeMux()

	// Health endpoints (no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /api/database/health", healthHandler.Database)

	// Service status endpoints
	mux.HandleFunc("GET /{$}", statusHandler.Root)
	mux.HandleFunc("GET /api/location", statusHandler.Location)
	mux.HandleFunc("GET /api/ai-suggest", statusHandler.AISuggest)

	// Suggestion pipeline
	mux.Handle("POST /api/suggest", suggestLimiter.Limit(http.HandlerFunc(suggestHandler.Suggest)))

	// Activity catalog and custom categories
	mux.HandleFunc("GET /api/activities", activitiesHandler.Catalog)
	mux.HandleFunc("GET /api/activities/custom", activitiesHandler.ListCategories)
	mux.HandleFunc("POST /api/activities/custom", activitiesHandler.CreateCategory)
	mux.HandleFunc("DELETE /api/activities/custom/{id}", activitiesHandler.DeactivateCategory)
	mux.HandleFunc("GET /api/activities/popular", activitiesHandler.Popular)

	// History endpoints
	mux.HandleFunc("GET /api/history", historyHandler.Recent)
	mux.HandleFunc("POST /api/history/select", historyHandler.Select)
	mux.HandleFunc("PUT /api/history/{id}/complete", historyHandler.Complete)

	// Build middleware chain (order matters: outermost last). Session runs
	// outermost so the request logger sees the resolved session id.
	var handler http.Handler = mux
	handler = cors.Apply(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)
	handler = session.Apply(handler)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// AI calls can legitimately take >15s; keep a higher write timeout
		// so clients get a JSON error/response instead of a dropped connection.
		WriteTimeout: 95 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
