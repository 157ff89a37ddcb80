package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mergington/activities/cmd/server/internal/handlers"
	"github.com/mergington/activities/cmd/server/internal/middleware"
	"github.com/mergington/activities/internal/activities"
	"github.com/mergington/activities/internal/config"
)

func main() {
	// Load configuration first; the logger level comes from it
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Build the seed catalog
	seed := activities.DefaultSeed()
	if cfg.Seed.Path != "" {
		seed, err = activities.LoadSeed(cfg.Seed.Path)
		if err != nil {
			logger.Fatal("Failed to load seed catalog", zap.Error(err))
		}
		logger.Info("Loaded seed catalog",
			zap.String("path", cfg.Seed.Path),
			zap.Int("activities", len(seed)),
		)
	}

	var opts []activities.Option
	if !cfg.Capacity.Enforce {
		logger.Warn("Capacity enforcement disabled; max_participants is display-only")
		opts = append(opts, activities.WithoutCapacityCheck())
	}
	registry := activities.NewRegistry(seed, logger, opts...)

	// Optional Redis client for rate limiting and health checks
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Rate limiting fails open, so startup continues without Redis.
			logger.Warn("Redis unreachable at startup; rate limiting will fail open",
				zap.String("addr", cfg.Redis.Addr),
				zap.Error(err),
			)
		}
		cancel()
	}

	// Create handlers
	activitiesHandler := handlers.NewActivitiesHandler(registry, logger)
	healthHandler := handlers.NewHealthHandler(redisClient, logger)

	// Create middlewares
	tracingMiddleware := middleware.NewTracingMiddleware(logger).Middleware
	validationMiddleware := middleware.NewValidationMiddleware(logger).Middleware
	mutation := func(h http.Handler) http.Handler { return h }
	if redisClient != nil {
		mutation = middleware.NewRateLimiter(redisClient, cfg.Redis.RateLimitPerMinute, logger).Middleware
	}

	// Setup HTTP mux
	mux := http.NewServeMux()

	// Health check and metrics (no validation chain)
	mux.HandleFunc("GET /health", healthHandler.Health)
	if cfg.Metrics.Port == 0 {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// UI bootstrap: the root path redirects to the static entry document
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
	})
	mux.Handle("GET /static/",
		http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.Server.StaticDir))),
	)

	// Activity endpoints
	mux.Handle("GET /activities",
		validationMiddleware(
			http.HandlerFunc(activitiesHandler.List),
		),
	)

	mux.Handle("GET /activities/{name}",
		validationMiddleware(
			http.HandlerFunc(activitiesHandler.Get),
		),
	)

	mux.Handle("POST /activities/{name}/signup",
		validationMiddleware(
			mutation(
				http.HandlerFunc(activitiesHandler.Signup),
			),
		),
	)

	mux.Handle("DELETE /activities/{name}/unregister",
		validationMiddleware(
			mutation(
				http.HandlerFunc(activitiesHandler.Unregister),
			),
		),
	)

	// Tracing wraps every route so request metrics cover the whole surface
	root := tracingMiddleware(corsMiddleware(mux))

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Optional dedicated metrics listener
	if cfg.Metrics.Port > 0 {
		go func() {
			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", promhttp.Handler())
			addr := ":" + strconv.Itoa(cfg.Metrics.Port)
			logger.Info("Metrics server listening", zap.String("address", addr))
			if err := http.ListenAndServe(addr, metricsMux); err != nil {
				logger.Error("Failed to start metrics server", zap.Error(err))
			}
		}()
	}

	// Start server in goroutine
	go func() {
		logger.Info("Activities API starting",
			zap.Int("port", cfg.Server.Port),
			zap.Int("activities", len(registry.List())),
			zap.Bool("capacity_enforced", cfg.Capacity.Enforce),
			zap.Bool("rate_limiting", redisClient != nil),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// buildLogger constructs a zap logger from the logging config.
func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if lc.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	if lc.Level != "" {
		level, err := zap.ParseAtomicLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
		zc.Level = level
	}
	return zc.Build()
}

// corsMiddleware adds CORS headers for development
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Trace-ID, X-Request-ID, traceparent")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
