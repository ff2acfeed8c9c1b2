package category

import (
	"context"
	"log/slog"
	"sync/atomic"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/util"
)

// Registry is the closed set of categories products may be filed under.
//
// When its source yields nothing (for example, the category file is missing)
// the registry is open and accepts every slug. Switching between open and
// closed is logged once per transition.
type Registry struct {
	source Source
	logger *slog.Logger
	open   atomic.Bool
}

// NewRegistry creates a registry backed by source.
func NewRegistry(source Source, logger *slog.Logger) *Registry {
	return &Registry{source: source, logger: logger}
}

// List returns the current categories.
func (r *Registry) List(ctx context.Context) []Category {
	return r.source.Categories(ctx)
}

// Lookup returns the category with the given slug.
func (r *Registry) Lookup(ctx context.Context, slug string) (Category, bool) {
	for _, c := range r.source.Categories(ctx) {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// Name returns the display name for slug, or "" when unknown.
func (r *Registry) Name(ctx context.Context, slug string) string {
	if c, ok := r.Lookup(ctx, slug); ok {
		return c.Name
	}
	return ""
}

// Validate accepts slug if it names a known category.
func (r *Registry) Validate(ctx context.Context, slug string) error {
	if slug == "" {
		return domainerrors.InvalidInput("category is required")
	}
	if !util.IsSlug(slug) {
		return domainerrors.InvalidInputf("category %q is not a valid slug", slug)
	}

	categories := r.source.Categories(ctx)
	if len(categories) == 0 {
		if !r.open.Swap(true) {
			r.logger.Warn("category set is empty, accepting categories without validation", "category", slug)
		}
		return nil
	}
	if r.open.Swap(false) {
		r.logger.Info("category set available, validating categories", "count", len(categories))
	}

	allowed := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.Slug == slug {
			return nil
		}
		allowed = append(allowed, c.Slug)
	}

	return domainerrors.InvalidInputWithDetails(
		"unknown category "+slug,
		map[string]any{"allowed": allowed},
	)
}
