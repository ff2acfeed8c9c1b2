package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/cdn"
	"github.com/camiseteria/camiseteria-server/internal/domain"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/store"
	"github.com/camiseteria/camiseteria-server/internal/store/backend"
	"github.com/camiseteria/camiseteria-server/internal/validation"
)

const testBaseURL = "https://res.cloudinary.com/camiseteria/image/upload/"

// testEnv wires the services over a file-backed store in a temp dir.
type testEnv struct {
	store   *store.Store
	catalog *CatalogService
	sync    *SyncService
	search  *SearchService
	path    string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	b, err := backend.NewFile(path)
	require.NoError(t, err)

	log := logger.Discard()
	registry := category.NewRegistry(category.NewStaticSource(nil), log)
	images := cdn.NewWithDestroyer(cdn.Config{BaseURL: testBaseURL}, cdn.NoopDestroyer{}, log)
	v := validation.New()

	st := store.New(b, log, store.WithCategoryNamer(registry))
	t.Cleanup(func() { _ = st.Close() })

	return &testEnv{
		store:   st,
		catalog: NewCatalogService(st, registry, images, v, log),
		sync:    NewSyncService(st, registry, images, v, log),
		search:  NewSearchService(st, log),
		path:    path,
	}
}

func (e *testEnv) seed(t *testing.T, products ...domain.Product) {
	t.Helper()
	for _, p := range products {
		_, err := e.store.Upsert(context.Background(), p)
		require.NoError(t, err)
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func ptr[T any](v T) *T {
	return &v
}
