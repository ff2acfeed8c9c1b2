package providers

import (
	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/store"
	"github.com/camiseteria/camiseteria-server/internal/store/backend"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// BackendOptions maps storage configuration onto backend options.
func BackendOptions(cfg config.StorageConfig) backend.Options {
	return backend.Options{
		Kind:       backend.Kind(cfg.Backend),
		FilePath:   cfg.FilePath,
		BadgerDir:  cfg.BadgerDir,
		SQLitePath: cfg.SQLitePath,
		S3: backend.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Key:       cfg.S3.Key,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		},
	}
}

// ProvideStore provides the catalog store over the configured backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	registry := do.MustInvoke[*category.Registry](i)

	b, err := backend.Open(BackendOptions(cfg.Storage))
	if err != nil {
		return nil, err
	}

	s := store.New(b, log.Component("store"), store.WithCategoryNamer(registry))

	log.Info("Catalog store initialized", "backend", b.Name())

	return &StoreHandle{Store: s}, nil
}
