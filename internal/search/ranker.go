// Package search ranks catalog products against a shopper's free-text query.
//
// Ranking is a pure function over an in-memory product list: every product
// gets a relevance score built from name, category and description matches
// plus small boosts for stock, featured and discounted items.
package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/camiseteria/camiseteria-server/internal/domain"
)

// MaxResults caps the number of ranked products returned.
const MaxResults = 50

// Score weights.
const (
	scoreExactName       = 100
	scoreNameContains    = 80
	scoreFuzzyNameFactor = 60
	scoreCategory        = 40
	scoreSubcategory     = 30
	scoreDescription     = 20
	scoreInStock         = 10
	scoreFeatured        = 15
	scoreDiscount        = 5
	scoreWordInName      = 25
	scoreWordInDesc      = 10

	fuzzyThreshold = 0.6
	minScore       = 10
	minWordLength  = 2
)

// Result is a product with its relevance score.
type Result struct {
	Product domain.Product `json:"product"`
	Score   float64        `json:"score"`
}

// Rank scores every product against query and returns those scoring above
// the relevance floor, best first, at most MaxResults of them.
// Products with equal scores keep their input order.
func Rank(products []domain.Product, query string) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Result{}
	}

	words := queryWords(q)
	results := make([]Result, 0, len(products))
	for i := range products {
		score := scoreProduct(&products[i], q, words)
		if score <= minScore {
			continue
		}
		results = append(results, Result{Product: products[i], Score: score})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// Score returns the relevance of a single product for query.
func Score(p *domain.Product, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	return scoreProduct(p, q, queryWords(q))
}

func scoreProduct(p *domain.Product, q string, words []string) float64 {
	name := strings.ToLower(p.Name)
	desc := strings.ToLower(p.Description)

	var score float64
	switch {
	case name == q:
		score += scoreExactName
	case strings.Contains(name, q):
		score += scoreNameContains
	default:
		if sim := Similarity(name, q); sim > fuzzyThreshold {
			score += sim * scoreFuzzyNameFactor
		}
	}

	if strings.Contains(strings.ToLower(p.Category), q) {
		score += scoreCategory
	}
	if p.Subcategory != "" && strings.Contains(strings.ToLower(p.Subcategory), q) {
		score += scoreSubcategory
	}
	if desc != "" && strings.Contains(desc, q) {
		score += scoreDescription
	}

	if p.InStock {
		score += scoreInStock
	}
	if p.Featured {
		score += scoreFeatured
	}
	if p.HasDiscount() {
		score += scoreDiscount
	}

	for _, w := range words {
		if strings.Contains(name, w) {
			score += scoreWordInName
		}
		if desc != "" && strings.Contains(desc, w) {
			score += scoreWordInDesc
		}
	}

	return score
}

// queryWords returns the words of q long enough to earn a per-word bonus.
func queryWords(q string) []string {
	var words []string
	for _, w := range strings.Fields(q) {
		if utf8.RuneCountInString(w) > minWordLength {
			words = append(words, w)
		}
	}
	return words
}
