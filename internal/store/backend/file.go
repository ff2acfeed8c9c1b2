package backend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

// File stores the document as a JSON file on local disk.
// The revision is a content hash, so external edits are detected too.
// Writers in other processes are not serialized.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a file backend at path, creating the parent directory.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file backend: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file backend: create directory: %w", err)
	}
	return &File{path: path}, nil
}

// Name implements Backend.
func (f *File) Name() string { return "file" }

// Load implements Backend.
func (f *File) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return nil, err
	}
	return &Snapshot{Data: data, Revision: contentRevision(data)}, nil
}

// Save implements Backend.
func (f *File) Save(ctx context.Context, data []byte, expected string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current := ""
	existing, err := f.read()
	switch {
	case err == nil:
		current = contentRevision(existing)
	case !errors.Is(err, ErrNotExist):
		return "", err
	}
	if current != expected {
		return "", ErrRevisionMismatch
	}

	if err := writeAtomic(f.path, data); err != nil {
		return "", err
	}
	return contentRevision(data), nil
}

// Close implements Backend.
func (f *File) Close() error { return nil }

func (f *File) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// writeAtomic replaces path through a synced temp file in the same directory
// so readers never observe a partial document.
func writeAtomic(path string, data []byte) error {
	if err := renameio.WriteFile(path, data, 0o644, renameio.WithTempDir(filepath.Dir(path))); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func contentRevision(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
