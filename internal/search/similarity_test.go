package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"boca juniors", "boca", 0.8},
		{"boca", "boca juniors", 0.8},
		{"boca", "bica", 0.75},
		{"abc", "xyz", 0},
		{"kitten", "sitting", 4.0 / 7},
		{"ñandú", "nandu", 0.6},
		{"river", "", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Similarity(tt.b, tt.a), 1e-9)
		})
	}
}
