package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/climate-outlook/internal/config"
	"github.com/vzahanych/climate-outlook/internal/server/handlers"
	"github.com/vzahanych/climate-outlook/internal/server/middlewares"
	"github.com/vzahanych/climate-outlook/pkg/telemetry"
)

type Server struct {
	version  string
	engine   *gin.Engine
	server   *http.Server
	reporter handlers.Reporter
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

func NewServer(cfg *config.Config, reporter handlers.Reporter, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	if len(cfg.Server.CORSOrigins) > 0 {
		engine.Use(middlewares.CORSMiddleware(cfg.Server.CORSOrigins))
	}
	engine.Use(middlewares.MetricsMiddleware(logger, tele))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))

	s := &Server{
		version:  cfg.Version,
		engine:   engine,
		reporter: reporter,
		logger:   logger,
		tele:     tele,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	health := handlers.NewHealthHandler(s.logger, s.version)

	// Business endpoints
	s.engine.POST("/analyze", handlers.NewAnalyzeHandler(s.reporter, s.logger).Analyze)

	s.engine.GET("/", health.Root)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", handlers.NewMetricsHandler(s.logger).ServeMetrics)
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
