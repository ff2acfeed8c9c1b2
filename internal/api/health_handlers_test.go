package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camiseteria/camiseteria-server/internal/domain"
)

func TestHealthCheck_EmptyCatalog(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope[HealthResponse](t, w)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "catalog is empty", env.Data.Components["catalog"].Message)
}

func TestHealthCheck_CorruptCatalog(t *testing.T) {
	ts := setupTestServer(t)
	ts.seed(t, domain.Product{ID: "team-boca", Name: "Boca", Category: "afc"})

	snap, err := ts.store.Backend().Load(context.Background())
	require.NoError(t, err)
	_, err = ts.store.Backend().Save(context.Background(), []byte("{not json"), snap.Revision)
	require.NoError(t, err)

	w := ts.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := decodeEnvelope[HealthResponse](t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "unhealthy", env.Data.Status)

	// Reads surface the corruption as a server error without leaking details.
	w = ts.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "CORRUPT_DATA", decodeEnvelope[any](t, w).Code)
}
