package api

import (
	"net/http"
	"strconv"

	"github.com/camiseteria/camiseteria-server/internal/cdn"
	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
	"github.com/camiseteria/camiseteria-server/internal/http/response"
)

// TransformResponse is a delivery URL with a transformation applied.
type TransformResponse struct {
	URL       string        `json:"url"`
	Transform cdn.Transform `json:"transform"`
}

// handleTransformImage applies a preset or explicit transformation to ?url=.
// Query: preset | crop, width, height, quality, format.
func (s *Server) handleTransformImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	source := q.Get("url")
	if source == "" {
		response.HandleError(w, domainerrors.InvalidInput("url is required"), s.logger)
		return
	}

	t, err := transformFromQuery(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	url, err := s.services.Images.Transform(s.services.Images.Expand(source), t)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Cache-Control", CacheCatalog)
	response.Success(w, TransformResponse{URL: url, Transform: t}, s.logger)
}

func transformFromQuery(r *http.Request) (cdn.Transform, error) {
	q := r.URL.Query()

	if name := q.Get("preset"); name != "" {
		t, ok := cdn.Preset(name)
		if !ok {
			return cdn.Transform{}, domainerrors.InvalidInputf("unknown preset %q", name)
		}
		return t, nil
	}

	t := cdn.Transform{
		Crop:    cdn.Crop(q.Get("crop")),
		Quality: q.Get("quality"),
		Format:  cdn.Format(q.Get("format")),
	}
	for name, dst := range map[string]*int{"width": &t.Width, "height": &t.Height} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return cdn.Transform{}, domainerrors.InvalidInputWithDetails("invalid image transformation",
				map[string]string{name: "must be between 1 and " + strconv.Itoa(cdn.MaxDimension)})
		}
		*dst = v
	}
	return t, nil
}

// DestroyImageRequest names a CDN asset by public id or delivery URL.
type DestroyImageRequest struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

// handleDestroyImage removes an asset from the CDN.
func (s *Server) handleDestroyImage(w http.ResponseWriter, r *http.Request) {
	var req DestroyImageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	target := req.PublicID
	if target == "" {
		target = req.URL
	}

	publicID, err := s.services.Images.Destroy(r.Context(), target)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, map[string]string{"publicId": publicID}, "image deleted", s.logger)
}
