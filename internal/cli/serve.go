package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/rankbudget/internal/api"
	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/clients"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/logging"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/metrics"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/storage"
)

// RunServe runs the API server until SIGINT or SIGTERM.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	// Set up logging
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	version, err := store.SchemaVersion()
	if err == nil {
		logger.Info("storage ready", "path", cfg.Storage.DatabasePath, "schema_version", version)
	}

	c, err := clients.NewClients(cfg)
	if err != nil {
		return err
	}
	var cat service.KeywordCategorizer
	if c.Categorizer != nil {
		cat = c.Categorizer
		logger.Info("keyword categorization enabled", "model", cfg.LLM.Model)
	}

	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		m = metrics.New(true)
	}

	svc := service.NewOptimizeService(cfg, store, cat, m, logging.NewLoggerWithSystem(loggingCfg, "optimizer"))

	// Create API config
	apiCfg := api.ConfigFrom(cfg)
	if flags.Port != 0 {
		apiCfg.Port = flags.Port
	}

	// Create and start server
	server := api.NewServer(apiCfg, svc, m, logger)

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
