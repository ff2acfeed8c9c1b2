// Package main provides operator commands for the catalog document.
//
// Usage:
//
//	catalogctl inspect [config flags]
//	catalogctl stats [config flags]
//	catalogctl export [-o FILE] [config flags]
//	catalogctl copy -to sqlite|badger|file|s3 [config flags]
//	catalogctl hash-password [PASSWORD]
//
// Config flags are the server's (-storage, -data-dir, -env-file, ...).
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/currency"
	"github.com/camiseteria/camiseteria-server/internal/di/providers"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/store"
	"github.com/camiseteria/camiseteria-server/internal/store/backend"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "inspect":
		err = withStore(args, func(s *store.Store, _ *config.Config) error { return inspect(ctx, s, os.Stdout) })
	case "stats":
		err = withStore(args, func(s *store.Store, _ *config.Config) error { return stats(ctx, s, os.Stdout) })
	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		out := fs.String("o", "", "Output file (default stdout)")
		_ = fs.Parse(args)
		err = withStore(fs.Args(), func(s *store.Store, _ *config.Config) error { return export(ctx, s, *out) })
	case "copy":
		fs := flag.NewFlagSet("copy", flag.ExitOnError)
		to := fs.String("to", "", "Target backend kind")
		_ = fs.Parse(args)
		err = withStore(fs.Args(), func(s *store.Store, cfg *config.Config) error { return copyTo(ctx, s, cfg, *to) })
	case "hash-password":
		err = hashPassword(args, os.Stdin, os.Stdout)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "catalogctl %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: catalogctl inspect|stats|export|copy|hash-password [flags]")
}

// withStore opens the configured backend directly; no server wiring is needed.
func withStore(args []string, fn func(*store.Store, *config.Config) error) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	b, err := backend.Open(providers.BackendOptions(cfg.Storage))
	if err != nil {
		return err
	}

	s := store.New(b, logger.Discard())
	defer s.Close()

	return fn(s, cfg)
}

func inspect(ctx context.Context, s *store.Store, w io.Writer) error {
	db, err := s.Read(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== Catalog (%s) ===\n\n", s.Backend().Name())
	fmt.Fprintf(w, "Version:      %s\n", db.Version)
	fmt.Fprintf(w, "Last updated: %s\n", db.LastUpdated.Format("2006-01-02 15:04:05 MST"))
	if !db.Metadata.LastSync.IsZero() {
		fmt.Fprintf(w, "Last sync:    %s\n", db.Metadata.LastSync.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(w, "Products:     %d\n\n", len(db.Products))

	slugs := make([]string, 0, len(db.Categories))
	for slug := range db.Categories {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	fmt.Fprintln(w, "Categories:")
	for _, slug := range slugs {
		c := db.Categories[slug]
		fmt.Fprintf(w, "  %-24s %-28s %4d\n", slug, c.Name, c.ProductCount)
	}

	products, err := s.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\nProducts:")
	for _, p := range products {
		stock := "out"
		if p.InStock {
			stock = "in"
		}
		fmt.Fprintf(w, "  %-40s %-20s %14s  stock:%s  images:%d/%d\n",
			p.ID, p.Category, currency.FormatARS(p.Price), stock,
			len(p.SelectedImages), len(p.AllAvailableImages))
	}
	return nil
}

func stats(ctx context.Context, s *store.Store, w io.Writer) error {
	st, err := s.Stats(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func export(ctx context.Context, s *store.Store, out string) error {
	db, err := s.Read(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o600)
}

// copyTo writes the current document into another backend. The target must
// not hold a catalog yet.
func copyTo(ctx context.Context, s *store.Store, cfg *config.Config, to string) error {
	if to == "" {
		return errors.New("-to is required")
	}
	if to == cfg.Storage.Backend {
		return fmt.Errorf("source and target are both %s", to)
	}

	db, err := s.Read(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(db)
	if err != nil {
		return err
	}

	target := cfg.Storage
	target.Backend = to
	dst, err := backend.Open(providers.BackendOptions(target))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := dst.Save(ctx, data, ""); err != nil {
		if errors.Is(err, backend.ErrRevisionMismatch) {
			return fmt.Errorf("%s already holds a catalog", dst.Name())
		}
		return err
	}

	fmt.Printf("Copied %d products from %s to %s\n", len(db.Products), s.Backend().Name(), dst.Name())
	return nil
}

func hashPassword(args []string, in io.Reader, w io.Writer) error {
	var password string
	if len(args) > 0 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}
