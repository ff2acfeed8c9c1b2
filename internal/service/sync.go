package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/domain"
	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/id"
	"github.com/camiseteria/camiseteria-server/internal/store"
	"github.com/camiseteria/camiseteria-server/internal/util"
	"github.com/camiseteria/camiseteria-server/internal/validation"
)

// Defaults for products created by a sync run.
const (
	DefaultPrice         = 75
	DefaultOriginalPrice = 90
)

var (
	// DefaultSizes is the size run every synced jersey starts with.
	DefaultSizes = []string{"S", "M", "L", "XL", "XXL"}
	// DefaultColors is the kit list every synced jersey starts with.
	DefaultColors = []string{"Home", "Away"}
)

// SyncRequest promotes curated album variants into catalog products.
type SyncRequest struct {
	AlbumPath string           `json:"albumPath" validate:"required"`
	Variants  []domain.Variant `json:"variants" validate:"required,min=1,dive"`
}

// SyncService turns CDN album variants into catalog products.
type SyncService struct {
	store      *store.Store
	categories *category.Registry
	images     ImageExpander
	validator  *validation.Validator
	logger     *slog.Logger
	now        func() time.Time
}

// NewSyncService creates a new sync service.
func NewSyncService(
	store *store.Store,
	categories *category.Registry,
	images ImageExpander,
	validator *validation.Validator,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		store:      store,
		categories: categories,
		images:     images,
		validator:  validator,
		logger:     logger,
		now:        time.Now,
	}
}

// CategoryFromAlbumPath extracts the category slug from an album path.
//
//	root/products/<category>/<team>  -> <category>
//	root/<category>/<team>           -> <category>
//
// Leading and trailing slashes are ignored. Any other shape is invalid.
func CategoryFromAlbumPath(albumPath string) (string, error) {
	segments := strings.Split(strings.Trim(albumPath, "/"), "/")
	if slices.Contains(segments, "") {
		return "", invalidAlbumPath(albumPath)
	}

	var raw string
	switch len(segments) {
	case 4:
		raw = segments[2]
	case 3:
		raw = segments[1]
	default:
		return "", invalidAlbumPath(albumPath)
	}

	slug := util.Slugify(raw)
	if slug == "" {
		return "", invalidAlbumPath(albumPath)
	}
	return slug, nil
}

func invalidAlbumPath(albumPath string) error {
	return domainerrors.InvalidInputWithDetails(
		fmt.Sprintf("invalid album path %q", albumPath),
		map[string]string{"albumPath": "must look like root/products/<category>/<team> or root/<category>/<team>"},
	)
}

// Sync builds one product per variant and upserts them in order.
//
// Everything is validated before the first write. Writes are sequential and
// not rolled back: when one fails, the products written before it remain.
// On success the catalog's last sync time is set to the run's start.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (*domain.SyncResult, error) {
	startedAt := s.now().UTC().Truncate(time.Millisecond)

	categorySlug, err := CategoryFromAlbumPath(req.AlbumPath)
	if err != nil {
		return nil, err
	}
	if len(req.Variants) == 0 {
		return nil, domainerrors.InvalidInputWithDetails("no variants to sync", map[string]string{
			"variants": "must contain at least 1 items",
		})
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.categories.Validate(ctx, categorySlug); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(req.Variants))
	for i, v := range req.Variants {
		products = append(products, s.buildProduct(v, categorySlug, startedAt, i))
	}

	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID, "album_path", req.AlbumPath, "category", categorySlug)
	logger.Info("sync started", "variants", len(products))

	result := &domain.SyncResult{
		RunID:      runID,
		AlbumPath:  req.AlbumPath,
		Category:   categorySlug,
		ProductIDs: make([]string, 0, len(products)),
	}

	for i, p := range products {
		if _, err := s.store.Upsert(ctx, p); err != nil {
			logger.Error("sync aborted",
				"product_id", p.ID,
				"index", i,
				"written", result.Count,
				"error", err,
			)
			return nil, fmt.Errorf("sync variant %d (%s): %w", i, p.ID, err)
		}
		result.Count++
		result.ProductIDs = append(result.ProductIDs, p.ID)
	}

	if err := s.store.MarkSynced(ctx, startedAt); err != nil {
		return nil, fmt.Errorf("record sync time: %w", err)
	}

	logger.Info("sync completed", "count", result.Count, "duration", time.Since(startedAt))
	return result, nil
}

func (s *SyncService) buildProduct(v domain.Variant, categorySlug string, startedAt time.Time, index int) domain.Product {
	price := v.Price
	if price == 0 {
		price = DefaultPrice
	}
	originalPrice := v.OriginalPrice
	if originalPrice == 0 {
		originalPrice = DefaultOriginalPrice
	}

	images := v.Images
	if s.images != nil {
		images = s.images.ExpandAll(images)
	}
	if images == nil {
		images = []string{}
	}

	return domain.Product{
		ID:                 id.SyncedProduct(v.Slug, startedAt, index),
		Name:               v.Name,
		Slug:               v.Slug,
		Description:        v.Description,
		Category:           categorySlug,
		Subcategory:        v.Subcategory,
		Price:              price,
		OriginalPrice:      originalPrice,
		SelectedImages:     slices.Clone(images),
		AllAvailableImages: slices.Clone(images),
		Sizes:              slices.Clone(DefaultSizes),
		Colors:             slices.Clone(DefaultColors),
		InStock:            true,
		StockStatus:        domain.StockInStock,
		Featured:           false,
	}
}
