package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/camiseteria/camiseteria-server/internal/http/response"
	"github.com/camiseteria/camiseteria-server/internal/store"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	catalog := s.checkCatalog(r.Context())

	resp := HealthResponse{
		Status:     catalog.Status,
		Components: map[string]ComponentHealth{"catalog": catalog},
	}

	status := http.StatusOK
	if catalog.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", CacheNoStore)
	response.JSON(w, status, resp, s.logger)
}

// checkCatalog loads the catalog document. A catalog that was never written is healthy.
func (s *Server) checkCatalog(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err := s.services.Store.Read(ctx)
	latency := time.Since(start).String()

	switch {
	case err == nil:
		return ComponentHealth{Status: "healthy", Latency: latency}
	case errors.Is(err, store.ErrCatalogNotFound):
		return ComponentHealth{Status: "healthy", Latency: latency, Message: "catalog is empty"}
	default:
		s.logger.Warn("health check failed", "component", "catalog", "backend", s.services.Store.Backend().Name(), "error", err)
		return ComponentHealth{Status: "unhealthy", Latency: latency, Message: err.Error()}
	}
}
