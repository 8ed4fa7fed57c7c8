package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type MetricsHandler struct {
	logger  *zap.Logger
	handler gin.HandlerFunc
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger:  logger,
		handler: gin.WrapH(promhttp.Handler()),
	}
}

// ServeMetrics exposes the default prometheus registry in text format.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.handler(c)
}
