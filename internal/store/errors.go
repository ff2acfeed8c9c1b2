package store

import (
	"context"
	"errors"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/store/backend"
)

// ErrCatalogNotFound is returned by Read when no catalog document exists yet.
// Callers that only need products treat it as an empty catalog.
var ErrCatalogNotFound = domainerrors.NotFound("catalog not found")

// backendError maps a backend failure onto the domain taxonomy.
func backendError(op string, err error) error {
	switch {
	case errors.Is(err, backend.ErrNotExist):
		return ErrCatalogNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return domainerrors.Upstream(op+" catalog", err)
	}
}
