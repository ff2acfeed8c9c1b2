// Package main runs one album sync against the configured catalog without
// starting the HTTP server.
//
// Usage:
//
//	go run ./cmd/sync -album root/products/afc/boca -variants boca.json
//	go run ./cmd/sync -variants request.json -- -storage sqlite
//
// The variants file holds either a JSON array of variants or a full sync
// request object with albumPath and variants. Flags after "--" are passed to
// the server configuration loader.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/di"
	"github.com/camiseteria/camiseteria-server/internal/domain"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run performs one sync and returns the process exit code. Returning instead
// of exiting lets the container shut down and close the store.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	album := fs.String("album", "", "Album path, e.g. root/products/afc/boca")
	variantsPath := fs.String("variants", "", "JSON file with variants or a full sync request")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *variantsPath == "" {
		fmt.Fprintln(stderr, "usage: sync -variants FILE [-album PATH] [-- config flags]")
		return 2
	}

	req, err := readRequest(*variantsPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read variants: %v\n", err)
		return 1
	}
	if *album != "" {
		req.AlbumPath = *album
	}

	cfg, err := config.Load(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	injector := di.NewContainerWithConfig(cfg)
	defer func() { _ = injector.Shutdown() }()

	log := do.MustInvoke[*logger.Logger](injector)
	syncSvc, err := do.Invoke[*service.SyncService](injector)
	if err != nil {
		log.Error("Failed to initialize sync", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := syncSvc.Sync(ctx, req)
	if err != nil {
		log.Error("Sync failed", "album", req.AlbumPath, "error", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error("Failed to write result", "error", err)
		return 1
	}
	return 0
}

func readRequest(path string) (service.SyncRequest, error) {
	//#nosec G304 -- path comes from the operator's command line
	data, err := os.ReadFile(path)
	if err != nil {
		return service.SyncRequest{}, err
	}

	var req service.SyncRequest
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var variants []domain.Variant
		if err := json.Unmarshal(trimmed, &variants); err != nil {
			return req, fmt.Errorf("decode variants: %w", err)
		}
		req.Variants = variants
		return req, nil
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("decode sync request: %w", err)
	}
	return req, nil
}
