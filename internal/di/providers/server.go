package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/api"
	"github.com/camiseteria/camiseteria-server/internal/cdn"
	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/dto"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	timeout time.Duration
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)

	services := &api.Services{
		Store:        storeHandle.Store,
		Catalog:      do.MustInvoke[*service.CatalogService](i),
		Sync:         do.MustInvoke[*service.SyncService](i),
		Search:       do.MustInvoke[*service.SearchService](i),
		Auth:         do.MustInvoke[*service.AuthService](i),
		Images:       do.MustInvoke[*cdn.Service](i),
		Enricher:     do.MustInvoke[*dto.Enricher](i),
		LoginLimiter: limiter.KeyedRateLimiter,
	}

	handler := api.NewServer(services, api.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	}, log.Component("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, timeout: cfg.Server.ShutdownTimeout}, nil
}
