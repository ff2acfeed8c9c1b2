package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camiseteria/camiseteria-server/internal/domain"
	"github.com/camiseteria/camiseteria-server/internal/search"
)

func TestSearchService_RanksCatalog(t *testing.T) {
	env := setupTestEnv(t)
	env.seed(t,
		domain.Product{ID: "team-boca", Name: "Boca Juniors", Category: "afc"},
		domain.Product{ID: "team-river", Name: "River Plate", Category: "afc"},
	)

	res, err := env.search.Search(context.Background(), "  boca ", 0)
	require.NoError(t, err)

	assert.Equal(t, "boca", res.Query)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "team-boca", res.Results[0].Product.ID)
}

func TestSearchService_EmptyCatalogAndQuery(t *testing.T) {
	env := setupTestEnv(t)

	res, err := env.search.Search(context.Background(), "boca", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Results)

	env.seed(t, domain.Product{ID: "team-boca", Name: "Boca Juniors", Category: "afc"})
	res, err = env.search.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Zero(t, res.Total)
}

func TestSearchService_Limit(t *testing.T) {
	env := setupTestEnv(t)
	for i := range 60 {
		env.seed(t, domain.Product{ID: fmt.Sprintf("team-%02d", i), Name: "Boca Juniors", Category: "afc"})
	}

	res, err := env.search.Search(context.Background(), "boca", 5)
	require.NoError(t, err)
	assert.Len(t, res.Results, 5)
	assert.Equal(t, search.MaxResults, res.Total)

	res, err = env.search.Search(context.Background(), "boca", 500)
	require.NoError(t, err)
	assert.Len(t, res.Results, search.MaxResults)
}
