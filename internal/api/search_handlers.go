package api

import (
	"net/http"

	"github.com/camiseteria/camiseteria-server/internal/http/response"
	"github.com/camiseteria/camiseteria-server/internal/search"
)

// handleSearch ranks products against ?q=. Optional ?limit= caps the hits.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", search.MaxResults)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	results, err := s.services.Search.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, results, s.logger)
}
