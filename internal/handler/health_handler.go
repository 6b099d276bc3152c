package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports process and collaborator liveness.
type HealthHandler struct {
	db    *sqlx.DB
	cache *redis.Client
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health reports that the process is up.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether Postgres and Redis answer within a short deadline.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "cache": "ok"}

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx).Err(); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	word := "ready"
	if status != http.StatusOK {
		word = "degraded"
	}
	c.JSON(status, gin.H{"status": word, "checks": checks})
}
