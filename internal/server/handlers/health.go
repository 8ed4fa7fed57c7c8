package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ServiceTitle       = "Climate Outlook Weather Analytics API"
	ServiceDescription = "Historical weather analysis using NASA POWER API data"
	healthServiceName  = "weather-analytics"
)

type HealthHandler struct {
	logger    *zap.Logger
	version   string
	startTime time.Time
}

func NewHealthHandler(logger *zap.Logger, version string) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		version:   version,
		startTime: time.Now(),
	}
}

// Root describes the service.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Message:     ServiceTitle,
		Description: ServiceDescription,
		Version:     h.version,
		Docs:        "POST /analyze",
	})
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   healthServiceName,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
