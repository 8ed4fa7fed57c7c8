package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/climate-outlook/internal/analysis"
	"github.com/vzahanych/climate-outlook/internal/config"
	"github.com/vzahanych/climate-outlook/internal/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the analysis HTTP server",
	Long:  `Start the HTTP server exposing POST /analyze, health probes and prometheus metrics.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting climate outlook server",
		zap.String("config_path", configPath),
		zap.String("environment", cfg.Environment),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Bool("enhancement_enabled", cfg.Enhancement.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	analyzer, err := analysis.NewAnalyzerFromConfig(cfg, log.Logger, tele)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg, analyzer, log.Logger, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}
		if err := tele.Shutdown(ctx); err != nil {
			log.Warn("Error during telemetry shutdown", zap.Error(err))
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
