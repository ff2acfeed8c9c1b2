package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/camiseteria/camiseteria-server/internal/search"
	"github.com/camiseteria/camiseteria-server/internal/store"
)

// SearchService ranks catalog products against a text query.
type SearchService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{store: store, logger: logger}
}

// SearchResults is the response of a catalog search.
type SearchResults struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Results []search.Result `json:"results"`
	TookMs  int64           `json:"tookMs"`
}

// Search ranks every product against query and returns at most limit hits.
// A limit outside 1..search.MaxResults means search.MaxResults.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*SearchResults, error) {
	start := time.Now()
	query = strings.TrimSpace(query)

	if limit <= 0 || limit > search.MaxResults {
		limit = search.MaxResults
	}

	products, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	results := search.Rank(products, query)
	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}

	s.logger.Debug("catalog search",
		"query", query,
		"products", len(products),
		"hits", total,
	)

	return &SearchResults{
		Query:   query,
		Total:   total,
		Results: results,
		TookMs:  time.Since(start).Milliseconds(),
	}, nil
}
