// Package cdn builds image delivery URLs and removes assets from the image CDN.
package cdn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
)

const uploadMarker = "/upload/"

// versionSegment matches the "v1712345678" folder the CDN puts before public ids.
var versionSegment = regexp.MustCompile(`^v\d+$`)

// transformParam matches one transformation parameter such as "c_fill" or "ar_1:1".
var transformParam = regexp.MustCompile(`^[a-z]{1,3}_[^,/]+$`)

// Config carries the CDN account settings.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL overrides the upload base used to expand bare public ids.
	BaseURL string
}

// Service expands image ids, applies transformations and deletes assets.
type Service struct {
	baseURL   string
	destroyer Destroyer
	logger    *slog.Logger
}

// ErrNoBaseURL is returned by New when neither a cloud name nor a base URL is set.
var ErrNoBaseURL = errors.New("cdn cloud name or base URL is required")

// New creates a Service. Without API credentials deletes are unavailable.
func New(cfg Config, logger *slog.Logger) (*Service, error) {
	if strings.TrimSpace(cfg.CloudName) == "" && strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}

	var destroyer Destroyer = NoopDestroyer{}
	if cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "" {
		d, err := NewCloudinaryDestroyer(cfg.CloudName, cfg.APIKey, cfg.APISecret)
		if err != nil {
			return nil, err
		}
		destroyer = d
	} else {
		logger.Info("cdn credentials not configured, asset deletion disabled")
	}
	return NewWithDestroyer(cfg, destroyer, logger), nil
}

// NewWithDestroyer creates a Service with an explicit destroyer.
func NewWithDestroyer(cfg Config, destroyer Destroyer, logger *slog.Logger) *Service {
	return &Service{
		baseURL:   BaseURL(cfg),
		destroyer: destroyer,
		logger:    logger,
	}
}

// BaseURL returns the upload base URL for cfg, always ending in "/".
func BaseURL(cfg Config) string {
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/", cfg.CloudName)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// Expand turns a bare public id into a delivery URL. Full URLs pass through.
func (s *Service) Expand(id string) string {
	if IsURL(id) {
		return id
	}
	return s.baseURL + strings.TrimLeft(id, "/")
}

// ExpandAll expands every id in ids.
func (s *Service) ExpandAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Expand(id))
	}
	return out
}

// Transform applies t to url.
func (s *Service) Transform(url string, t Transform) (string, error) {
	return Apply(url, t)
}

// Destroy deletes an asset by public id or delivery URL.
func (s *Service) Destroy(ctx context.Context, idOrURL string) (string, error) {
	publicID := idOrURL
	if IsURL(idOrURL) {
		publicID = PublicID(idOrURL)
	}
	if strings.TrimSpace(publicID) == "" {
		return "", domainerrors.InvalidInput("public id is required")
	}

	result, err := s.destroyer.Destroy(ctx, publicID)
	if err != nil {
		return "", err
	}
	if result == "not found" {
		return "", domainerrors.NotFoundf("image %s not found", publicID)
	}

	s.logger.Info("cdn asset destroyed", "public_id", publicID, "result", result)
	return publicID, nil
}

// IsURL reports whether s is already an absolute http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// PublicID extracts the public id from a delivery URL: the path after
// "/upload/", minus transformation and version segments and the extension.
func PublicID(url string) string {
	idx := strings.Index(url, uploadMarker)
	if idx < 0 {
		return ""
	}
	rest := url[idx+len(uploadMarker):]
	if q := strings.IndexAny(rest, "?#"); q >= 0 {
		rest = rest[:q]
	}

	segments := strings.Split(rest, "/")
	start := 0
	for start < len(segments)-1 {
		seg := segments[start]
		if versionSegment.MatchString(seg) {
			start++
			break
		}
		if !isTransformSegment(seg) {
			break
		}
		start++
	}

	id := strings.Join(segments[start:], "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

// isTransformSegment reports whether every comma-separated part looks like "w_400".
func isTransformSegment(seg string) bool {
	for _, part := range strings.Split(seg, ",") {
		if !transformParam.MatchString(part) {
			return false
		}
	}
	return true
}
