package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFile(filepath.Join(dir, "data", "products.json"))
	require.NoError(t, err)

	bdg, err := OpenBadgerInMemory()
	require.NoError(t, err)

	sq, err := OpenSQLite(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)

	all := map[string]Backend{"file": file, "badger": bdg, "sqlite": sq}
	t.Cleanup(func() {
		for _, b := range all {
			_ = b.Close()
		}
	})
	return all
}

func TestBackend_LoadMissingDocument(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Load(context.Background())
			assert.ErrorIs(t, err, ErrNotExist)
		})
	}
}

func TestBackend_SaveAndLoad(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rev1, err := b.Save(ctx, []byte(`{"version":"1.0.0"}`), "")
			require.NoError(t, err)
			require.NotEmpty(t, rev1)

			snap, err := b.Load(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":"1.0.0"}`, string(snap.Data))
			assert.Equal(t, rev1, snap.Revision)

			rev2, err := b.Save(ctx, []byte(`{"version":"1.0.1"}`), rev1)
			require.NoError(t, err)
			assert.NotEqual(t, rev1, rev2)

			snap, err = b.Load(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":"1.0.1"}`, string(snap.Data))
			assert.Equal(t, rev2, snap.Revision)
		})
	}
}

func TestBackend_RejectsStaleRevision(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rev1, err := b.Save(ctx, []byte(`{"n":1}`), "")
			require.NoError(t, err)

			_, err = b.Save(ctx, []byte(`{"n":2}`), rev1)
			require.NoError(t, err)

			// A writer still holding rev1 must not clobber n=2.
			_, err = b.Save(ctx, []byte(`{"n":3}`), rev1)
			assert.ErrorIs(t, err, ErrRevisionMismatch)

			snap, err := b.Load(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `{"n":2}`, string(snap.Data))
		})
	}
}

func TestBackend_CreateOnlyWhenAbsent(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Save(ctx, []byte(`{"n":1}`), "")
			require.NoError(t, err)

			_, err = b.Save(ctx, []byte(`{"n":2}`), "")
			assert.ErrorIs(t, err, ErrRevisionMismatch)
		})
	}
}

func TestBackend_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Save(ctx, []byte(`{}`), "")
			assert.Error(t, err)
		})
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open(Options{Kind: "ftp"})
	assert.Error(t, err)
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(S3Config{})
	assert.Error(t, err)

	b, err := NewS3(S3Config{Bucket: "catalog", Endpoint: "http://localhost:9000/"})
	require.NoError(t, err)
	assert.Equal(t, "catalog/products.json", b.key)
}

func TestS3ErrorMapping(t *testing.T) {
	assert.True(t, isPreconditionFailed(&smithy.GenericAPIError{Code: "PreconditionFailed"}))
	assert.True(t, isPreconditionFailed(&smithy.GenericAPIError{Code: "ConditionalRequestConflict"}))
	assert.False(t, isPreconditionFailed(&smithy.GenericAPIError{Code: "AccessDenied"}))

	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
}

func TestFile_ReplacesWithoutLeftovers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")

	f, err := NewFile(path)
	require.NoError(t, err)

	rev, err := f.Save(ctx, []byte(`{"version":"1.0.0"}`), "")
	require.NoError(t, err)
	_, err = f.Save(ctx, []byte(`{"version":"1.0.1"}`), rev)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are renamed away")
	assert.Equal(t, "products.json", entries[0].Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.1"}`, string(data))
}

func TestFile_DetectsExternalEdit(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	rev, err := f.Save(ctx, []byte(`{"version":"1.0.0"}`), "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"version":"hand-edited"}`), 0o644))

	_, err = f.Save(ctx, []byte(`{"version":"1.0.1"}`), rev)
	assert.ErrorIs(t, err, ErrRevisionMismatch)
}
