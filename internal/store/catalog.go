package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/camiseteria/camiseteria-server/internal/domain"
	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/store/backend"
)

// defaultMaxAttempts bounds read-modify-write retries after a revision conflict.
const defaultMaxAttempts = 5

// Store owns the catalog document. Every mutation loads the current document,
// applies the change in memory, recomputes aggregates and writes it back
// guarded by the revision it was read at. Nothing is cached between calls.
type Store struct {
	backend     backend.Backend
	logger      *slog.Logger
	namer       CategoryNamer
	now         func() time.Time
	maxAttempts int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCategoryNamer sets the resolver for names of newly seen categories.
func WithCategoryNamer(n CategoryNamer) Option {
	return func(s *Store) { s.namer = n }
}

// WithMaxAttempts sets how many times a conflicting write is retried.
func WithMaxAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// New creates a Store on top of b.
func New(b backend.Backend, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		backend:     b,
		logger:      logger,
		now:         time.Now,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying document backend.
func (s *Store) Backend() backend.Backend {
	return s.backend
}

// Read loads and decodes the catalog document.
// Returns ErrCatalogNotFound when nothing has been written yet.
func (s *Store) Read(ctx context.Context) (*domain.Database, error) {
	db, _, err := s.read(ctx)
	return db, err
}

func (s *Store) read(ctx context.Context) (*domain.Database, string, error) {
	snap, err := s.backend.Load(ctx)
	if err != nil {
		return nil, "", backendError("read", err)
	}

	var db domain.Database
	if err := json.Unmarshal(snap.Data, &db); err != nil {
		return nil, "", domainerrors.CorruptData("catalog document is not valid JSON", err)
	}
	db.Normalize()
	return &db, snap.Revision, nil
}

// loadOrEmpty is read for writers: a missing document is an empty catalog.
func (s *Store) loadOrEmpty(ctx context.Context) (*domain.Database, string, error) {
	db, rev, err := s.read(ctx)
	if errors.Is(err, ErrCatalogNotFound) {
		return domain.NewDatabase(), "", nil
	}
	return db, rev, err
}

// mutation changes db in place and reports whether anything changed.
type mutation func(db *domain.Database, now time.Time) (changed bool, err error)

func (s *Store) mutate(ctx context.Context, op string, fn mutation) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		db, rev, err := s.loadOrEmpty(ctx)
		if err != nil {
			return err
		}

		now := s.now().UTC().Truncate(time.Millisecond)
		changed, err := fn(db, now)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		Recompute(ctx, db, now, s.namer)
		db.LastUpdated = now

		data, err := json.MarshalIndent(db, "", "  ")
		if err != nil {
			return domainerrors.Internal("encode catalog").WithCause(err)
		}

		_, err = s.backend.Save(ctx, data, rev)
		if errors.Is(err, backend.ErrRevisionMismatch) {
			s.logger.Debug("catalog revision conflict, retrying",
				"op", op,
				"attempt", attempt,
				"backend", s.backend.Name(),
			)
			continue
		}
		if err != nil {
			return backendError("write", err)
		}
		return nil
	}

	s.logger.Warn("catalog write gave up after revision conflicts", "op", op, "attempts", s.maxAttempts)
	return domainerrors.Conflict("catalog was modified concurrently, please retry")
}

// Get returns one product.
func (s *Store) Get(ctx context.Context, id string) (*domain.Product, error) {
	db, err := s.Read(ctx)
	if errors.Is(err, ErrCatalogNotFound) {
		return nil, domainerrors.NotFoundf("product %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	p, ok := db.Products[id]
	if !ok {
		return nil, domainerrors.NotFoundf("product %s not found", id)
	}
	return &p, nil
}

// List returns every product ordered by id. A missing catalog is empty.
func (s *Store) List(ctx context.Context) ([]domain.Product, error) {
	db, err := s.Read(ctx)
	if errors.Is(err, ErrCatalogNotFound) {
		return []domain.Product{}, nil
	}
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(db.Products))
	for _, p := range db.Products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		return strings.Compare(a.ID, b.ID)
	})
	return products, nil
}

// Upsert inserts or replaces a product. New products get CreatedAt and
// CreatedBy; replacements keep the originals. LastModified is always set.
func (s *Store) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, domainerrors.InvalidInput("product id is required")
	}
	p = normalizeImages(p.Clone())
	if missing := p.MissingImages(); len(missing) > 0 {
		return nil, imageSubsetError(missing)
	}

	var saved domain.Product
	err := s.mutate(ctx, "upsert", func(db *domain.Database, now time.Time) (bool, error) {
		next := p.Clone()
		next.LastModified = now
		if existing, ok := db.Products[next.ID]; ok {
			next.CreatedAt = existing.CreatedAt
			next.CreatedBy = existing.CreatedBy
		} else {
			next.CreatedAt = now
			next.CreatedBy = domain.CreatedByAdmin
		}
		db.Products[next.ID] = next
		saved = next
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateImages replaces the selected images of a product, and its available
// images when available is non-nil.
func (s *Store) UpdateImages(ctx context.Context, id string, selected, available []string) (*domain.Product, error) {
	var saved domain.Product
	err := s.mutate(ctx, "update_images", func(db *domain.Database, now time.Time) (bool, error) {
		p, ok := db.Products[id]
		if !ok {
			return false, domainerrors.NotFoundf("product %s not found", id)
		}

		p.SelectedImages = slices.Clone(selected)
		if available != nil {
			p.AllAvailableImages = slices.Clone(available)
		}
		p = normalizeImages(p)
		if missing := p.MissingImages(); len(missing) > 0 {
			return false, imageSubsetError(missing)
		}

		p.LastModified = now
		db.Products[id] = p
		saved = p
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Delete removes a product. Returns false, without writing, when the id is absent.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.mutate(ctx, "delete", func(db *domain.Database, _ time.Time) (bool, error) {
		if _, ok := db.Products[id]; !ok {
			return false, nil
		}
		delete(db.Products, id)
		deleted = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// BulkResult reports which products a bulk update touched.
type BulkResult struct {
	Updated []string `json:"updated"`
	Missing []string `json:"missing"`
}

// BulkUpdate applies patch to every listed product in a single write.
// Unknown ids are reported, not treated as errors.
func (s *Store) BulkUpdate(ctx context.Context, ids []string, patch domain.ProductPatch) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, domainerrors.InvalidInput("at least one product id is required")
	}

	var result BulkResult
	err := s.mutate(ctx, "bulk_update", func(db *domain.Database, now time.Time) (bool, error) {
		result = BulkResult{Updated: []string{}, Missing: []string{}}
		for _, id := range ids {
			p, ok := db.Products[id]
			if !ok {
				result.Missing = append(result.Missing, id)
				continue
			}
			patch.Apply(&p)
			p.LastModified = now
			db.Products[id] = p
			result.Updated = append(result.Updated, id)
		}
		return len(result.Updated) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkSynced records the time of the last completed album sync.
func (s *Store) MarkSynced(ctx context.Context, at time.Time) error {
	return s.mutate(ctx, "mark_synced", func(db *domain.Database, _ time.Time) (bool, error) {
		db.Metadata.LastSync = at.UTC().Truncate(time.Millisecond)
		return true, nil
	})
}

// Stats summarizes the current catalog. A missing catalog yields zeros.
func (s *Store) Stats(ctx context.Context) (*domain.Stats, error) {
	db, err := s.Read(ctx)
	if errors.Is(err, ErrCatalogNotFound) {
		db = domain.NewDatabase()
	} else if err != nil {
		return nil, err
	}
	return ComputeStats(db), nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func normalizeImages(p domain.Product) domain.Product {
	if p.SelectedImages == nil {
		p.SelectedImages = []string{}
	}
	if p.AllAvailableImages == nil {
		p.AllAvailableImages = []string{}
	}
	return p
}

func imageSubsetError(missing []string) error {
	return domainerrors.InvalidInputWithDetails(
		"selected images must be part of the available images",
		map[string]any{"missingImages": missing},
	)
}
