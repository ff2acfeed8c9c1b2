package api

import (
	"github.com/camiseteria/camiseteria-server/internal/cdn"
	"github.com/camiseteria/camiseteria-server/internal/dto"
	"github.com/camiseteria/camiseteria-server/internal/ratelimit"
	"github.com/camiseteria/camiseteria-server/internal/service"
	"github.com/camiseteria/camiseteria-server/internal/store"
)

// Services groups everything the handlers call into.
type Services struct {
	Store        *store.Store
	Catalog      *service.CatalogService
	Sync         *service.SyncService
	Search       *service.SearchService
	Auth         *service.AuthService
	Images       *cdn.Service
	Enricher     *dto.Enricher                // Storefront product views
	LoginLimiter *ratelimit.KeyedRateLimiter // Per-IP login throttle
}
