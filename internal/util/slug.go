// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Runs of anything that is not a lowercase letter or digit.
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)
	// A canonical slug: lowercase alphanumeric words joined by single dashes.
	slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify converts a display name to a URL-safe slug.
//
//	"Boca Juniors"        → "boca-juniors"
//	"Atlético de Madrid"  → "atletico-de-madrid"
//	"São Paulo FC 2024"   → "sao-paulo-fc-2024"
//	"  --Selección--  "   → "seleccion"
func Slugify(s string) string {
	// Decompose accented characters so the base letter survives.
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumericRe.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// IsSlug reports whether s is already in canonical slug form.
func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}

// TitleFromSlug turns "premier-league" into "Premier League".
func TitleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
