// Package main starts the storefront catalog HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/di"
	"github.com/camiseteria/camiseteria-server/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := di.NewContainer()
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "catalog server failed to start: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	<-ctx.Done()
	log.Info("Signal received, draining connections")

	// Handles are shut down in reverse dependency order:
	// HTTP server, login limiter, category watcher, store.
	if report := injector.Shutdown(); report != nil {
		log.Error("Shutdown finished with errors", "error", report)
	}

	log.Info("Catalog server stopped")
}
