package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/cdn"
	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/dto"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/validation"
)

// CategoryWatchHandle stops the category file watcher on shutdown.
type CategoryWatchHandle struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *CategoryWatchHandle) Shutdown() error {
	if h.cancel != nil {
		h.cancel()
	}
	return nil
}

// ProvideCategorySource provides the configured category source.
func ProvideCategorySource(i do.Injector) (category.Source, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Categories.Source == config.CategoriesFile {
		log.Info("Loading categories from file", "candidates", cfg.Categories.Files)
		return category.NewFileSource(cfg.Categories.Files, log.Component("categories")), nil
	}
	return category.NewStaticSource(nil), nil
}

// ProvideCategoryWatcher starts watching category files when enabled.
// A watcher that cannot start is logged; the cache still revalidates by mtime.
func ProvideCategoryWatcher(i do.Injector) (*CategoryWatchHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	source := do.MustInvoke[category.Source](i)

	fileSource, ok := source.(*category.FileSource)
	if !ok || !cfg.Categories.Watch {
		return &CategoryWatchHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := fileSource.Watch(ctx); err != nil {
		cancel()
		log.Warn("Category file watcher unavailable", "error", err)
		return &CategoryWatchHandle{}, nil
	}

	log.Info("Watching category files for changes")
	return &CategoryWatchHandle{cancel: cancel}, nil
}

// ProvideCategoryRegistry provides the closed category registry.
func ProvideCategoryRegistry(i do.Injector) (*category.Registry, error) {
	log := do.MustInvoke[*logger.Logger](i)
	source := do.MustInvoke[category.Source](i)
	return category.NewRegistry(source, log.Component("categories")), nil
}

// ProvideImageService provides the CDN image service.
func ProvideImageService(i do.Injector) (*cdn.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return cdn.New(cdn.Config{
		CloudName: cfg.CDN.CloudName,
		APIKey:    cfg.CDN.APIKey,
		APISecret: cfg.CDN.APISecret,
		BaseURL:   cfg.CDN.BaseURL,
	}, log.Component("cdn"))
}

// ProvideValidator provides the shared struct validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideEnricher provides the storefront product enricher.
func ProvideEnricher(i do.Injector) (*dto.Enricher, error) {
	registry := do.MustInvoke[*category.Registry](i)
	return dto.NewEnricher(registry), nil
}
