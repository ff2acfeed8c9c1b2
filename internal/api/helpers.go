package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
)

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return domainerrors.InvalidInput("request body is required")
		case errors.As(err, &maxErr):
			return domainerrors.InvalidInputf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return domainerrors.InvalidInput("invalid request body").WithCause(err)
		}
	}
	return nil
}

// parseBoolParam parses an optional boolean query parameter.
// Returns nil when the parameter is absent.
func parseBoolParam(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domainerrors.InvalidInputf("%s must be true or false", name)
	}
	return &v, nil
}

// parseIntParam parses an optional integer query parameter, returning def when absent.
func parseIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainerrors.InvalidInputf("%s must be an integer", name)
	}
	return v, nil
}
