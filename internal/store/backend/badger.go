package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

var (
	badgerDocumentKey = []byte("catalog:document")
	badgerRevisionKey = []byte("catalog:revision")
)

// Badger stores the document and a revision counter in an embedded
// Badger database. Both keys change in one transaction.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string) (*Badger, error) {
	if dir == "" {
		return nil, errors.New("badger backend: directory is required")
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	return openBadger(opts)
}

// OpenBadgerInMemory opens a Badger database that lives only in memory.
func OpenBadgerInMemory() (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openBadger(opts)
}

func openBadger(opts badger.Options) (*Badger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// Name implements Backend.
func (b *Badger) Name() string { return "badger" }

// Load implements Backend.
func (b *Badger) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snap Snapshot
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerDocumentKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotExist
		}
		if err != nil {
			return err
		}
		if snap.Data, err = item.ValueCopy(nil); err != nil {
			return err
		}

		snap.Revision, err = badgerRevision(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save implements Backend.
func (b *Badger) Save(ctx context.Context, data []byte, expected string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var next string
	err := b.db.Update(func(txn *badger.Txn) error {
		current, err := badgerRevision(txn)
		if err != nil {
			return err
		}
		if current != expected {
			return ErrRevisionMismatch
		}

		var n uint64
		if current != "" {
			if n, err = strconv.ParseUint(current, 10, 64); err != nil {
				return fmt.Errorf("parse stored revision: %w", err)
			}
		}
		next = strconv.FormatUint(n+1, 10)

		if err := txn.Set(badgerDocumentKey, data); err != nil {
			return err
		}
		return txn.Set(badgerRevisionKey, []byte(next))
	})
	if errors.Is(err, badger.ErrConflict) {
		return "", ErrRevisionMismatch
	}
	if err != nil {
		return "", err
	}
	return next, nil
}

// Close implements Backend.
func (b *Badger) Close() error {
	return b.db.Close()
}

func badgerRevision(txn *badger.Txn) (string, error) {
	item, err := txn.Get(badgerRevisionKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}
