package api

import (
	"fmt"
	"net/http"

	"github.com/camiseteria/camiseteria-server/internal/http/response"
	"github.com/camiseteria/camiseteria-server/internal/service"
)

// handleSync promotes album variants into catalog products.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req service.SyncRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.services.Sync.Sync(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, result, fmt.Sprintf("%d products synchronized", result.Count), s.logger)
}
