package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/metrics"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	pool    *postgres.Pool
	metrics *metrics.Metrics
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *postgres.Pool, m *metrics.Metrics) *HealthHandler {
	return &HealthHandler{pool: pool, metrics: m}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.pool.Ping(c.Request.Context()); err != nil {
		if h.metrics != nil {
			h.metrics.UpdateDependencyHealth("postgres", false)
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"database": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	if h.metrics != nil {
		h.metrics.UpdateDependencyHealth("postgres", true)
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	stat := h.pool.Stat()

	if h.metrics != nil {
		h.metrics.DatabaseConnections.Set(float64(stat.TotalConns()))
	}

	c.JSON(http.StatusOK, gin.H{
		"app":     "barcode-service",
		"version": "0.1.0",
		"database": map[string]any{
			"total_conns":    stat.TotalConns(),
			"acquired_conns": stat.AcquiredConns(),
			"idle_conns":     stat.IdleConns(),
			"max_conns":      stat.MaxConns(),
		},
	})
}
