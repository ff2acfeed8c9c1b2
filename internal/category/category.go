// Package category resolves the set of storefront categories.
//
// Categories come from a Source: either the built-in list or a JSON file.
// Sources are best effort. A missing or broken file logs a warning and
// yields no categories; it never fails a request.
package category

import (
	"context"
	"slices"

	"github.com/camiseteria/camiseteria-server/internal/util"
)

// Category is a storefront grouping such as a league or national teams.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// Source yields the available categories, deduplicated by slug.
type Source interface {
	Categories(ctx context.Context) []Category
}

// Dedupe normalizes slugs and drops every entry whose slug was already seen.
// The first occurrence wins and input order is kept. Entries whose name and
// slug both normalize to nothing are dropped.
func Dedupe(in []Category) []Category {
	seen := make(map[string]struct{}, len(in))
	out := make([]Category, 0, len(in))

	for _, c := range in {
		slug := util.Slugify(c.Slug)
		if slug == "" {
			slug = util.Slugify(c.Name)
		}
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		c.Slug = slug
		if c.ID == "" {
			c.ID = slug
		}
		if c.Name == "" {
			c.Name = util.TitleFromSlug(slug)
		}
		out = append(out, c)
	}
	return out
}

func clone(in []Category) []Category {
	if in == nil {
		return []Category{}
	}
	return slices.Clone(in)
}
