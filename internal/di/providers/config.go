// Package providers contains dependency injection providers for the game catalog server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/j0yzhu/GameWebApp/internal/config"
	"github.com/j0yzhu/GameWebApp/internal/logger"
	"github.com/j0yzhu/GameWebApp/internal/validation"
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

	log.Info("Starting GameWebApp",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"repository", cfg.Data.Repository,
		"data_path", cfg.Data.Path,
	)

	return log, nil
}

// ProvideValidator provides the request validator, capped at the configured page size.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return validation.New().WithMaxCount(cfg.API.MaxPageSize), nil
}
