package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alex-user-go/tripplan/internal/forecast"
	"github.com/alex-user-go/tripplan/internal/handler"
	"github.com/alex-user-go/tripplan/internal/messages"
	"github.com/alex-user-go/tripplan/internal/middleware"
	"github.com/alex-user-go/tripplan/internal/obs"
	"github.com/alex-user-go/tripplan/internal/storage"
	"github.com/alex-user-go/tripplan/internal/trip"
	"github.com/alex-user-go/tripplan/internal/trip/cache"
	"github.com/alex-user-go/tripplan/internal/trip/ratelimit"
)

// Run initializes and runs the application.
func Run() error {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize metrics
	metrics := obs.NewMetrics(logger)

	// Initialize forecast provider client
	fetcher := forecast.NewClient(getEnv("PROVIDER_URL", "http://localhost:9001"), 2*time.Second)

	// Initialize planner with the locale-selected message catalog
	catalog := messages.ForLocale(getEnv("LOCALE", "en"))
	planner := trip.NewPlanner(fetcher, 5*time.Second, catalog, metrics, logger)

	// Initialize plan history store
	store, err := storage.NewSQLite(getEnv("DB_PATH", "tripplan.db"))
	if err != nil {
		logger.Error("failed to open plan store", "error", err)
		return err
	}
	defer store.Close()

	// Initialize cache
	planCache := cache.NewCache(30 * time.Second)
	defer planCache.Close()

	// Initialize rate limiter (10 requests per minute per IP)
	limiter := ratelimit.New(10, time.Minute)
	defer limiter.Close()

	// Initialize handler
	h := handler.New(planner, planCache, limiter, store, metrics, logger)

	// Setup routes with logging middleware
	mux := http.NewServeMux()
	mux.HandleFunc("GET /plan", h.PlanHandler)
	mux.HandleFunc("GET /plans", h.HistoryHandler)
	mux.HandleFunc("GET /healthz", obs.HealthHandler(logger))
	mux.HandleFunc("GET /metrics", metrics.MetricsHandler())

	// Wrap with middleware
	wrappedHandler := middleware.Logging(logger)(mux)

	// Configure server
	srv := &http.Server{
		Addr:         getEnv("ADDR", ":8080"),
		Handler:      wrappedHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// getEnv gets an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
