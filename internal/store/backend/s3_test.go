package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket serves a single object and honors conditional puts the way S3 does.
type fakeBucket struct {
	t *testing.T

	mu      sync.Mutex
	data    []byte
	etag    string
	version int
	puts    []http.Header
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "/catalog/catalog/products.json", r.URL.Path)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		if f.etag == "" {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("ETag", f.etag)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(f.data)

	case http.MethodPut:
		f.puts = append(f.puts, r.Header.Clone())

		if r.Header.Get("If-None-Match") == "*" && f.etag != "" {
			writeS3Error(w, http.StatusPreconditionFailed, "PreconditionFailed")
			return
		}
		if match := r.Header.Get("If-Match"); match != "" && match != f.etag {
			writeS3Error(w, http.StatusPreconditionFailed, "PreconditionFailed")
			return
		}

		body, err := io.ReadAll(r.Body)
		if !assert.NoError(f.t, err) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.version++
		f.data = body
		f.etag = fmt.Sprintf(`"etag-%d"`, f.version)
		w.Header().Set("ETag", f.etag)
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, code)
}

func newFakeS3(t *testing.T) (*S3, *fakeBucket) {
	t.Helper()
	fake := &fakeBucket{t: t}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	b, err := NewS3(S3Config{
		Endpoint:  srv.URL,
		Bucket:    "catalog",
		AccessKey: "test",
		SecretKey: "test-secret",
	})
	require.NoError(t, err)
	return b, fake
}

func TestS3_ConditionalWrites(t *testing.T) {
	ctx := context.Background()
	b, fake := newFakeS3(t)

	_, err := b.Load(ctx)
	require.ErrorIs(t, err, ErrNotExist)

	rev1, err := b.Save(ctx, []byte(`{"version":"1.0.0"}`), "")
	require.NoError(t, err)
	assert.Equal(t, `"etag-1"`, rev1)

	snap, err := b.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0"}`, string(snap.Data))
	assert.Equal(t, rev1, snap.Revision, "the ETag is the revision")

	rev2, err := b.Save(ctx, []byte(`{"version":"1.0.1"}`), rev1)
	require.NoError(t, err)
	assert.Equal(t, `"etag-2"`, rev2)

	fake.mu.Lock()
	puts := fake.puts
	fake.mu.Unlock()
	require.Len(t, puts, 2)
	assert.Equal(t, "*", puts[0].Get("If-None-Match"))
	assert.Empty(t, puts[0].Get("If-Match"))
	assert.Equal(t, rev1, puts[1].Get("If-Match"))
	assert.Empty(t, puts[1].Get("If-None-Match"))
}

func TestS3_StaleRevisionIsMismatch(t *testing.T) {
	ctx := context.Background()
	b, _ := newFakeS3(t)

	rev1, err := b.Save(ctx, []byte(`{"version":"1.0.0"}`), "")
	require.NoError(t, err)
	_, err = b.Save(ctx, []byte(`{"version":"1.0.1"}`), rev1)
	require.NoError(t, err)

	_, err = b.Save(ctx, []byte(`{"version":"0.9.9"}`), rev1)
	assert.ErrorIs(t, err, ErrRevisionMismatch)

	_, err = b.Save(ctx, []byte(`{"version":"0.0.1"}`), "")
	assert.ErrorIs(t, err, ErrRevisionMismatch, "create-only put over an existing object")

	snap, err := b.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.1"}`, string(snap.Data))
}
