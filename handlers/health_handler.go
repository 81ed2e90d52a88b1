package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/planejatrip/planejatrip-backend/db"
)

// HealthHandler reports service liveness and dependency readiness.
type HealthHandler struct {
	pool    db.PGXPool
	redis   *redis.Client
	version string
}

func NewHealthHandler(pool db.PGXPool, redisClient *redis.Client, version string) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient, version: version}
}

func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx := c.Request.Context()

	components := gin.H{}
	healthy := true

	if err := h.pool.Ping(ctx); err != nil {
		components["database"] = gin.H{"status": "down", "error": err.Error()}
		healthy = false
	} else {
		components["database"] = gin.H{"status": "up"}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = gin.H{"status": "down", "error": err.Error()}
			healthy = false
		} else {
			components["redis"] = gin.H{"status": "up"}
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":     overall,
		"version":    h.version,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"components": components,
	})
}
