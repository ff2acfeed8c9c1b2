package store

import (
	"context"
	"time"

	"github.com/camiseteria/camiseteria-server/internal/domain"
	"github.com/camiseteria/camiseteria-server/internal/util"
)

// CategoryNamer resolves a display name for a category slug.
type CategoryNamer interface {
	Name(ctx context.Context, slug string) string
}

// Recompute rebuilds every derived counter in db from its product mapping.
//
// Counts are never patched incrementally. Existing category entries are kept
// even at zero products; categories referenced by a product but missing from
// the mapping are created. A category's LastModified moves only when its count
// changes, so calling Recompute twice yields the same document.
func Recompute(ctx context.Context, db *domain.Database, now time.Time, namer CategoryNamer) {
	db.Normalize()

	counts := make(map[string]int)
	images := 0
	for _, p := range db.Products {
		if p.Category != "" {
			counts[p.Category]++
		}
		images += len(p.SelectedImages)
	}

	db.Metadata.TotalProducts = len(db.Products)
	db.Metadata.TotalImages = images

	for slug, agg := range db.Categories {
		if n := counts[slug]; agg.ProductCount != n {
			agg.ProductCount = n
			agg.LastModified = now
			db.Categories[slug] = agg
		}
	}

	for slug, n := range counts {
		if _, ok := db.Categories[slug]; ok {
			continue
		}
		db.Categories[slug] = domain.CategoryAggregate{
			ID:           slug,
			Name:         categoryName(ctx, namer, slug),
			Slug:         slug,
			ProductCount: n,
			LastModified: now,
		}
	}
}

func categoryName(ctx context.Context, namer CategoryNamer, slug string) string {
	if namer != nil {
		if name := namer.Name(ctx, slug); name != "" {
			return name
		}
	}
	return util.TitleFromSlug(slug)
}

// ComputeStats summarizes the products in db.
func ComputeStats(db *domain.Database) *domain.Stats {
	stats := &domain.Stats{
		TotalProducts:  len(db.Products),
		CategoryCounts: make(map[string]int),
		LastUpdated:    db.LastUpdated,
		LastSync:       db.Metadata.LastSync,
	}
	for _, p := range db.Products {
		stats.TotalImages += len(p.SelectedImages)
		if p.Featured {
			stats.FeaturedProducts++
		}
		if p.InStock {
			stats.InStockProducts++
		}
		if p.Category != "" {
			stats.CategoryCounts[p.Category]++
		}
	}
	return stats
}
