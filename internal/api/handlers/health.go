package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/family-hub/internal/database"
	"github.com/stitts-dev/family-hub/internal/services"
)

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        *database.DB
	redis     *redis.Client
	refresher *services.SnapshotRefresher
	breaker   *services.CircuitBreakerService
	logger    *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	db *database.DB,
	redisClient *redis.Client,
	refresher *services.SnapshotRefresher,
	breaker *services.CircuitBreakerService,
	logger *logrus.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		refresher: refresher,
		breaker:   breaker,
		logger:    logger,
	}
}

// GetHealth returns the basic health status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "family-hub",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.db.HealthCheck(); err != nil {
		response.Status = "unhealthy"
		response.Checks["database"] = "failed: " + err.Error()
	} else {
		response.Checks["database"] = "ok"
	}

	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		response.Status = "unhealthy"
		response.Checks["redis"] = "failed: " + err.Error()
	} else {
		response.Checks["redis"] = "ok"
	}

	response.Checks["stats_api_breaker"] = h.breaker.GetState("statsapi").String()

	statusCode := http.StatusOK
	if response.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// GetReady returns the readiness status including background jobs
func (h *HealthHandler) GetReady(c *gin.Context) {
	response := gin.H{
		"status":    "ready",
		"service":   "family-hub",
		"timestamp": time.Now(),
	}
	if h.refresher != nil {
		response["refresher"] = h.refresher.Status()
	}
	c.JSON(http.StatusOK, response)
}
