package handler

import (
	"net/http"
	"time"

	"github.com/Agure-la/alx-poll/internal/service"
	"github.com/Agure-la/alx-poll/pkg/logger"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	cache  *service.CacheService
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cache *service.CacheService, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		cache:  cache,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	if err := h.cache.HealthCheck(r.Context()); err != nil {
		checks["cache"] = "unavailable"
	} else {
		checks["cache"] = "ok"
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Service:   "alx-poll",
		Checks:    checks,
	})
}
