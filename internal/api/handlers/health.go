package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"hirescore/internal/api/middleware"
	"hirescore/internal/logging"
	"hirescore/pkg/models"
)

const (
	version          = "1.0.0"
	readinessTimeout = 3 * time.Second
)

var startTime = time.Now()

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logging.LogWithRequestID(middleware.RequestID(c)).Debug("Health check requested")

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler reports ready only when every dependency check passes
func ReadinessHandler(checks map[string]HealthCheck) echo.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c echo.Context) error {
		logger := logging.LogWithRequestID(middleware.RequestID(c))

		ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
		defer cancel()

		results := map[string]string{"api": "ok"}
		ready := true
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				ready = false
				results[name] = "unavailable"
				logger.Warn("Readiness check failed", map[string]interface{}{
					"check": name,
					"error": err.Error(),
				})
				continue
			}
			results[name] = "ok"
		}

		response := models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    results,
		}
		if !ready {
			response.Status = "not_ready"
			return c.JSON(http.StatusServiceUnavailable, response)
		}
		return c.JSON(http.StatusOK, response)
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	})
}
