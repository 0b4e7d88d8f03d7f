// Package app initializes and holds the long-lived services shared by the
// CLI commands.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mpievolbio-scicomp/tripser-go/internal/config"
	"github.com/mpievolbio-scicomp/tripser-go/internal/logging"
	"github.com/mpievolbio-scicomp/tripser-go/internal/metrics"
)

// App holds the shared services for one invocation: logger, loaded
// configuration, a run identifier, and the optional metrics listener.
type App struct {
	logger  *zap.Logger
	cfg     config.Config
	runID   string
	metrics *metrics.Server
}

// New loads configuration, builds the logger and, when configured, starts
// the metrics listener. It fails fast if any service cannot be initialized.
// A non-empty metricsAddr overrides the configured listener address.
func New(cfgPath string, metricsAddr string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	a := &App{
		logger: logger,
		cfg:    cfg,
		runID:  runID,
	}

	if cfg.Metrics.Addr != "" {
		a.metrics = metrics.NewServer(cfg.Metrics.Addr, logger)
		a.metrics.Start()
	}

	return a, nil
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// RunID returns the identifier attached to this invocation's logs.
func (a *App) RunID() string {
	return a.runID
}

// Close shuts down the metrics listener and flushes the logger.
func (a *App) Close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("error shutting down metrics server", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
