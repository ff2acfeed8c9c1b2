package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camiseteria/camiseteria-server/internal/domain"
)

func TestSync_Success(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.login(t)

	w := ts.do(t, http.MethodPost, "/api/products/sync", map[string]any{
		"albumPath": "root/products/afc/boca",
		"variants": []map[string]any{
			{"name": "Boca Titular", "slug": "boca-titular", "images": []string{"boca/home"}},
			{"name": "Boca Suplente", "slug": "boca-suplente"},
		},
	}, authz)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	env := decodeEnvelope[domain.SyncResult](t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "2 products synchronized", env.Message)
	assert.Equal(t, "afc", env.Data.Category)
	assert.Equal(t, 2, env.Data.Count)
	assert.Len(t, env.Data.ProductIDs, 2)

	w = ts.do(t, http.MethodGet, "/api/products?category=afc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeEnvelope[[]any](t, w).Data, 2)
}

func TestSync_InvalidAlbumPath(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.login(t)

	w := ts.do(t, http.MethodPost, "/api/products/sync", map[string]any{
		"albumPath": "root/a/b/c/d",
		"variants":  []map[string]any{{"name": "Boca", "slug": "boca"}},
	}, authz)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope[any](t, w)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "invalid album path")
}

func TestSync_UnknownCategory(t *testing.T) {
	ts := setupTestServer(t)
	authz := ts.login(t)

	w := ts.do(t, http.MethodPost, "/api/products/sync", map[string]any{
		"albumPath": "root/curling/team",
		"variants":  []map[string]any{{"name": "Team", "slug": "team"}},
	}, authz)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope[any](t, w).Details, "allowed")
}
