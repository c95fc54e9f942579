package handler

import (
	"context"
	"database/sql"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"github.com/pixellab01/dashboard/internal/infrastructure/cache"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store *cache.DatasetStore
	db    *sql.DB
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(store *cache.DatasetStore, db *sql.DB) *HealthHandler {
	return &HealthHandler{
		store: store,
		db:    db,
	}
}

// Ping is the basic liveness probe
func (h *HealthHandler) Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status":  "ok",
		"message": "pong",
	})
}

// Readiness checks the service and its dependencies
func (h *HealthHandler) Readiness(ctx context.Context, c *app.RequestContext) {
	if err := h.store.Ping(ctx); err != nil {
		c.JSON(503, utils.H{
			"status": "not_ready",
			"redis":  "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(503, utils.H{
			"status":   "not_ready",
			"redis":    "healthy",
			"database": "unhealthy",
			"error":    err.Error(),
		})
		return
	}

	c.JSON(200, utils.H{
		"status":   "ready",
		"redis":    "healthy",
		"database": "healthy",
	})
}

// Liveness reports whether the process is alive
func (h *HealthHandler) Liveness(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status": "alive",
	})
}
