package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/cdn"
	"github.com/camiseteria/camiseteria-server/internal/dto"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/ratelimit"
	"github.com/camiseteria/camiseteria-server/internal/service"
	"github.com/camiseteria/camiseteria-server/internal/store"
	"github.com/camiseteria/camiseteria-server/internal/store/backend"
	"github.com/camiseteria/camiseteria-server/internal/validation"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "camiseta-2024"
	testCDNBase       = "https://res.cloudinary.com/camiseteria/image/upload/"
)

// testEnvelope mirrors response.Envelope with a typed payload.
type testEnvelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
	Message string         `json:"message"`
}

// fakeDestroyer records deletions and reports ids under "missing/" as not found.
type fakeDestroyer struct {
	destroyed []string
}

func (f *fakeDestroyer) Destroy(_ context.Context, publicID string) (string, error) {
	if strings.HasPrefix(publicID, "missing/") {
		return "not found", nil
	}
	f.destroyed = append(f.destroyed, publicID)
	return "ok", nil
}

type testServer struct {
	server    *Server
	store     *store.Store
	destroyer *fakeDestroyer
}

// setupTestServer creates a test server over a file-backed catalog in a temp dir.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.Discard()

	b, err := backend.NewFile(filepath.Join(t.TempDir(), "products.json"))
	require.NoError(t, err)

	registry := category.NewRegistry(category.NewStaticSource(nil), log)
	st := store.New(b, log, store.WithCategoryNamer(registry))
	t.Cleanup(func() { _ = st.Close() })

	destroyer := &fakeDestroyer{}
	images := cdn.NewWithDestroyer(cdn.Config{BaseURL: testCDNBase}, destroyer, log)
	v := validation.New()

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{9}, 32), time.Hour)
	require.NoError(t, err)

	limiter := ratelimit.New(5, time.Minute, 5)
	t.Cleanup(limiter.Stop)

	services := &Services{
		Store:   st,
		Catalog: service.NewCatalogService(st, registry, images, v, log),
		Sync:    service.NewSyncService(st, registry, images, v, log),
		Search:  service.NewSearchService(st, log),
		Auth: service.NewAuthService(
			auth.Credentials{Username: testAdminUser, Password: testAdminPassword},
			tokens, v, log,
		),
		Images:       images,
		Enricher:     dto.NewEnricher(registry),
		LoginLimiter: limiter,
	}

	return &testServer{
		server:    NewServer(services, Config{AllowedOrigins: []string{"https://camiseteria.example"}}, log),
		store:     st,
		destroyer: destroyer,
	}
}

// do performs a request. Extra headers are given as "Name: value" pairs.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ": ")
		require.True(t, ok, "malformed header %q", h)
		req.Header.Set(name, value)
	}

	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)
	return w
}

// login returns an Authorization header for the test admin.
func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": testAdminUser,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env testEnvelope[service.LoginResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)
	return "Authorization: Bearer " + env.Data.Token
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
