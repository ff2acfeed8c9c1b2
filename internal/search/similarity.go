package search

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// containedSimilarity is the similarity given when one string contains the other.
const containedSimilarity = 0.8

// Similarity returns a value in [0,1] describing how alike a and b are,
// normalized by the longer string's length in runes.
func Similarity(a, b string) float64 {
	longer, shorter := a, b
	if utf8.RuneCountInString(b) > utf8.RuneCountInString(a) {
		longer, shorter = b, a
	}

	maxLen := utf8.RuneCountInString(longer)
	if maxLen == 0 {
		return 1
	}
	if strings.Contains(longer, shorter) {
		return containedSimilarity
	}

	return float64(maxLen-levenshtein.ComputeDistance(longer, shorter)) / float64(maxLen)
}
