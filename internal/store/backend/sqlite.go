package backend

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var sqliteSchema string

// SQLite keeps the document in a single-row table with an integer revision.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite backend: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Name implements Backend.
func (s *SQLite) Name() string { return "sqlite" }

// Load implements Backend.
func (s *SQLite) Load(ctx context.Context) (*Snapshot, error) {
	var (
		body     []byte
		revision int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT body, revision FROM catalog_document WHERE id = 1`,
	).Scan(&body, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("select catalog document: %w", err)
	}
	return &Snapshot{Data: body, Revision: strconv.FormatInt(revision, 10)}, nil
}

// Save implements Backend.
func (s *SQLite) Save(ctx context.Context, data []byte, expected string) (string, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if expected == "" {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO catalog_document (id, body, revision, updated_at)
			 VALUES (1, ?, 1, ?)
			 ON CONFLICT(id) DO NOTHING`,
			data, now)
		if err != nil {
			return "", fmt.Errorf("insert catalog document: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return "", err
		}
		return "1", nil
	}

	rev, err := strconv.ParseInt(expected, 10, 64)
	if err != nil {
		// A revision from another backend can never match.
		return "", ErrRevisionMismatch
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE catalog_document
		 SET body = ?, revision = revision + 1, updated_at = ?
		 WHERE id = 1 AND revision = ?`,
		data, now, rev)
	if err != nil {
		return "", fmt.Errorf("update catalog document: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return "", err
	}
	return strconv.FormatInt(rev+1, 10), nil
}

// Close implements Backend.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n != 1 {
		return ErrRevisionMismatch
	}
	return nil
}
