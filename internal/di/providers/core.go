// Package providers contains dependency injection providers for the Shelfwise server.
package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/logger"
)

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Shelfwise Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"database_path", cfg.Database.Path,
		"model", cfg.AI.Model,
	)

	return log, nil
}
