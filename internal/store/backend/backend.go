// Package backend persists the catalog document.
//
// Every backend stores one opaque byte blob plus a revision token. Save only
// succeeds when the caller's expected revision still matches the stored one,
// which lets the catalog store detect concurrent writers instead of silently
// overwriting their changes.
package backend

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotExist is returned by Load when no document has been written yet.
	ErrNotExist = errors.New("catalog document does not exist")

	// ErrRevisionMismatch is returned by Save when the stored revision is not
	// the one the caller read.
	ErrRevisionMismatch = errors.New("catalog revision mismatch")
)

// Snapshot is a stored document and the revision it was read at.
type Snapshot struct {
	Data     []byte
	Revision string
}

// Backend is a byte-level store for the catalog document.
type Backend interface {
	// Load returns the current document, or ErrNotExist.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes data if the stored revision equals expected. An empty
	// expected revision means "only if no document exists yet".
	// Returns the new revision.
	Save(ctx context.Context, data []byte, expected string) (string, error)

	// Name identifies the backend in logs.
	Name() string

	Close() error
}

// Kind selects a backend implementation.
type Kind string

// Supported backend kinds.
const (
	KindFile   Kind = "file"
	KindBadger Kind = "badger"
	KindSQLite Kind = "sqlite"
	KindS3     Kind = "s3"
)

// Options configures Open.
type Options struct {
	Kind       Kind
	FilePath   string
	BadgerDir  string
	SQLitePath string
	S3         S3Config
}

// Open constructs the backend selected by opts.Kind.
func Open(opts Options) (Backend, error) {
	switch opts.Kind {
	case KindFile:
		return NewFile(opts.FilePath)
	case KindBadger:
		return OpenBadger(opts.BadgerDir)
	case KindSQLite:
		return OpenSQLite(opts.SQLitePath)
	case KindS3:
		return NewS3(opts.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Kind)
	}
}
