// Package id generates identifiers for products and sessions.
package id

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/camiseteria/camiseteria-server/internal/util"
)

// Generate creates a prefixed random ID, e.g. "sess-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + n, nil
}

// CatalogProduct returns the id of a product created from the admin catalog:
// "team-" followed by the slugified name. Returns "" if the name has no
// slug-able characters.
func CatalogProduct(name string) string {
	slug := util.Slugify(name)
	if slug == "" {
		return ""
	}
	return "team-" + slug
}

// SyncedProduct returns the id of the index-th product of a sync run that
// started at startedAt: "{slug}-{unix millis}-{index}".
func SyncedProduct(slug string, startedAt time.Time, index int) string {
	return slug + "-" + strconv.FormatInt(startedAt.UnixMilli(), 10) + "-" + strconv.Itoa(index)
}
