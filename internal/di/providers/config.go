// Package providers contains dependency injection providers for the catalog server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger builds the process logger from the logger and app sections.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Format:      cfg.Logger.Format,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Configuration loaded",
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Backend,
		"categories", cfg.Categories.Source,
		"data_dir", cfg.App.DataDir,
		"cdn_configured", cfg.CDN.CloudName != "",
	)

	return log, nil
}
