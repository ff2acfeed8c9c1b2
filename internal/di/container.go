// Package di provides dependency injection configuration for the catalog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/cdn"
	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/di/providers"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// Configuration is loaded from the process arguments and environment.
func NewContainer() *do.RootScope {
	injector := do.New()
	do.Provide(injector, providers.ProvideConfig)
	register(injector)
	return injector
}

// NewContainerWithConfig creates a container around an already loaded
// configuration. Command-line tools use it after parsing their own flags.
func NewContainerWithConfig(cfg *config.Config) *do.RootScope {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	register(injector)
	return injector
}

func register(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Categories and images
	do.Provide(injector, providers.ProvideCategorySource)
	do.Provide(injector, providers.ProvideCategoryWatcher)
	do.Provide(injector, providers.ProvideCategoryRegistry)
	do.Provide(injector, providers.ProvideImageService)
	do.Provide(injector, providers.ProvideEnricher)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideSyncService)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideAuthService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
}

// Bootstrap initializes all services, starting the HTTP server last.
// Providers are lazy, so this is where configuration and storage errors surface.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*category.Registry](injector)
	_ = do.MustInvoke[*providers.CategoryWatchHandle](injector)
	if _, err := do.Invoke[*cdn.Service](injector); err != nil {
		return err
	}

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.SyncService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
