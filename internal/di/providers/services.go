package providers

import (
	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/cdn"
	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/service"
	"github.com/camiseteria/camiseteria-server/internal/validation"
)

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	registry := do.MustInvoke[*category.Registry](i)
	images := do.MustInvoke[*cdn.Service](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, registry, images, validator, log.Component("catalog")), nil
}

// ProvideSyncService provides the album sync service.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	registry := do.MustInvoke[*category.Registry](i)
	images := do.MustInvoke[*cdn.Service](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncService(storeHandle.Store, registry, images, validator, log.Component("sync")), nil
}

// ProvideSearchService provides the catalog search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(storeHandle.Store, log.Component("search")), nil
}

// ProvideAuthService provides the admin authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	creds := auth.Credentials{
		Username: cfg.Auth.AdminUsername,
		Password: cfg.Auth.AdminPassword,
	}
	return service.NewAuthService(creds, tokens, validator, log.Component("auth")), nil
}
