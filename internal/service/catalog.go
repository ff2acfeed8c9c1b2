package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/domain"
	"github.com/camiseteria/camiseteria-server/internal/dto"
	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/id"
	"github.com/camiseteria/camiseteria-server/internal/store"
	"github.com/camiseteria/camiseteria-server/internal/util"
	"github.com/camiseteria/camiseteria-server/internal/validation"
)

// ImageExpander turns bare CDN public ids into delivery URLs.
type ImageExpander interface {
	ExpandAll(ids []string) []string
}

// CatalogService handles product reads and admin edits.
type CatalogService struct {
	store      *store.Store
	categories *category.Registry
	images     ImageExpander
	validator  *validation.Validator
	logger     *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	store *store.Store,
	categories *category.Registry,
	images ImageExpander,
	validator *validation.Validator,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		store:      store,
		categories: categories,
		images:     images,
		validator:  validator,
		logger:     logger,
	}
}

// ProductFilter narrows a product listing. Nil flags match everything.
type ProductFilter struct {
	Category string
	Featured *bool
	InStock  *bool
}

func (f ProductFilter) matches(p *domain.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

// ListProducts returns the products matching filter, featured first.
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(all))
	for i := range all {
		if filter.matches(&all[i]) {
			products = append(products, all[i])
		}
	}

	// The store returns products ordered by id; keep that within each group.
	slices.SortStableFunc(products, func(a, b domain.Product) int {
		switch {
		case a.Featured == b.Featured:
			return 0
		case a.Featured:
			return -1
		default:
			return 1
		}
	})
	return products, nil
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.store.Get(ctx, productID)
}

// SaveProduct creates or replaces a product. A missing id becomes
// "team-{slug of name}" and a missing slug is derived from the name.
func (s *CatalogService) SaveProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p = p.Clone()
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)

	if p.ID == "" {
		p.ID = id.CatalogProduct(p.Name)
	}
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Name)
	}
	if p.StockStatus == "" {
		p.StockStatus = domain.StockInStock
	}
	p.SelectedImages = s.expand(p.SelectedImages)
	p.AllAvailableImages = s.expand(p.AllAvailableImages)

	if err := s.validator.Validate(p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, domainerrors.InvalidInputWithDetails("validation failed", map[string]string{
			"id": "is required when the name has no letters or digits",
		})
	}
	if err := s.categories.Validate(ctx, p.Category); err != nil {
		return nil, err
	}

	saved, err := s.store.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product saved", "product_id", saved.ID, "category", saved.Category)
	return saved, nil
}

// UpdateProduct applies a partial update to one product.
func (s *CatalogService) UpdateProduct(ctx context.Context, productID string, patch domain.ProductPatch) (*domain.Product, error) {
	if err := s.checkPatch(ctx, patch); err != nil {
		return nil, err
	}

	result, err := s.store.BulkUpdate(ctx, []string{productID}, patch)
	if err != nil {
		return nil, err
	}
	if len(result.Updated) == 0 {
		return nil, domainerrors.NotFoundf("product %s not found", productID)
	}

	s.logger.Info("product updated", "product_id", productID)
	return s.store.Get(ctx, productID)
}

// BulkUpdateRequest applies one patch to many products.
type BulkUpdateRequest struct {
	IDs   []string            `json:"ids" validate:"required,min=1,max=500,dive,required"`
	Patch domain.ProductPatch `json:"patch"`
}

// BulkUpdate applies a patch to every listed product in a single write.
// Ids that do not exist are reported back rather than failing the request.
func (s *CatalogService) BulkUpdate(ctx context.Context, req BulkUpdateRequest) (*store.BulkResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.checkPatch(ctx, req.Patch); err != nil {
		return nil, err
	}

	ids := slices.Compact(slices.Sorted(slices.Values(req.IDs)))

	result, err := s.store.BulkUpdate(ctx, ids, req.Patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("bulk update applied",
		"updated", len(result.Updated),
		"missing", len(result.Missing),
	)
	return result, nil
}

func (s *CatalogService) checkPatch(ctx context.Context, patch domain.ProductPatch) error {
	if patch.IsEmpty() {
		return domainerrors.InvalidInput("patch changes nothing")
	}
	if err := s.validator.Validate(patch); err != nil {
		return err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domainerrors.InvalidInputWithDetails("validation failed", map[string]string{"name": "is required"})
	}
	if patch.Category != nil {
		if err := s.categories.Validate(ctx, *patch.Category); err != nil {
			return err
		}
	}
	return nil
}

// UpdateImagesRequest replaces a product's image sets.
// A nil AllAvailableImages keeps the stored available set.
type UpdateImagesRequest struct {
	SelectedImages     []string `json:"selectedImages" validate:"required,dive,required"`
	AllAvailableImages []string `json:"allAvailableImages,omitempty" validate:"omitempty,dive,required"`
}

// UpdateImages replaces the curated images of a product.
func (s *CatalogService) UpdateImages(ctx context.Context, productID string, req UpdateImagesRequest) (*domain.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var available []string
	if req.AllAvailableImages != nil {
		available = s.expand(req.AllAvailableImages)
	}

	p, err := s.store.UpdateImages(ctx, productID, s.expand(req.SelectedImages), available)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product images updated",
		"product_id", productID,
		"selected", len(p.SelectedImages),
		"available", len(p.AllAvailableImages),
	)
	return p, nil
}

// DeleteProduct removes a product. Reports false when it did not exist.
func (s *CatalogService) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	deleted, err := s.store.Delete(ctx, productID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("product deleted", "product_id", productID)
	}
	return deleted, nil
}

// Stats summarizes the catalog.
func (s *CatalogService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.store.Stats(ctx)
}

// ListCategories returns the category set joined with product counts.
// Categories the catalog uses but the set does not know are appended after it.
func (s *CatalogService) ListCategories(ctx context.Context) ([]dto.Category, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	known := s.categories.List(ctx)
	out := make([]dto.Category, 0, len(known))
	seen := make(map[string]bool, len(known))
	for _, c := range known {
		seen[c.Slug] = true
		out = append(out, dto.Category{Category: c, ProductCount: stats.CategoryCounts[c.Slug]})
	}

	var extra []string
	for slug, count := range stats.CategoryCounts {
		if !seen[slug] && count > 0 {
			extra = append(extra, slug)
		}
	}
	slices.Sort(extra)
	for _, slug := range extra {
		out = append(out, dto.Category{
			Category: category.Category{
				ID:   slug,
				Name: util.TitleFromSlug(slug),
				Slug: slug,
			},
			ProductCount: stats.CategoryCounts[slug],
		})
	}
	return out, nil
}

func (s *CatalogService) expand(images []string) []string {
	if images == nil {
		return nil
	}
	if s.images == nil {
		return slices.Clone(images)
	}
	return s.images.ExpandAll(images)
}
