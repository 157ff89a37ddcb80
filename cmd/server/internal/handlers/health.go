package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	redis  *redis.Client // nil when rate limiting is disabled
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(redisClient *redis.Client, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		redis:  redisClient,
		logger: logger,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Time    time.Time         `json:"time"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: "1.0.0",
		Time:    time.Now(),
		Checks:  map[string]string{"server": "ok"},
	}
	code := http.StatusOK

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.redis.Ping(ctx).Err(); err != nil {
			// Rate limiting fails open, so a redis outage degrades rather
			// than breaks the service.
			response.Status = "degraded"
			response.Checks["redis"] = "failed"
			h.logger.Warn("Redis health check failed", zap.Error(err))
		} else {
			response.Checks["redis"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response)
}
