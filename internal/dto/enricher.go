package dto

import (
	"context"

	"github.com/camiseteria/camiseteria-server/internal/cdn"
	"github.com/camiseteria/camiseteria-server/internal/currency"
	"github.com/camiseteria/camiseteria-server/internal/domain"
)

// CategoryNamer resolves a category slug to its display name.
type CategoryNamer interface {
	Name(ctx context.Context, slug string) string
}

// Enricher builds storefront views from stored products.
type Enricher struct {
	categories CategoryNamer
	cover      cdn.Transform
}

// NewEnricher creates an enricher. Cover images use the "card" preset.
func NewEnricher(categories CategoryNamer) *Enricher {
	cover, _ := cdn.Preset("card")
	return &Enricher{categories: categories, cover: cover}
}

// Product returns the storefront view of p.
func (e *Enricher) Product(ctx context.Context, p *domain.Product) *Product {
	view := &Product{
		Product:    p,
		PriceLabel: currency.FormatARS(p.Price),
	}

	if e.categories != nil {
		view.CategoryName = e.categories.Name(ctx, p.Category)
	}

	if p.HasDiscount() {
		view.OriginalPriceLabel = currency.FormatARS(p.OriginalPrice)
		view.DiscountPercent = currency.DiscountPercent(p.Price, p.OriginalPrice)
	}

	if len(p.SelectedImages) > 0 {
		cover, err := cdn.Apply(p.SelectedImages[0], e.cover)
		if err != nil {
			cover = p.SelectedImages[0]
		}
		view.CoverImage = cover
	}

	return view
}

// Products returns storefront views for products, in order.
func (e *Enricher) Products(ctx context.Context, products []domain.Product) []*Product {
	out := make([]*Product, 0, len(products))
	for i := range products {
		out = append(out, e.Product(ctx, &products[i]))
	}
	return out
}
