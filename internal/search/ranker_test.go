package search

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camiseteria/camiseteria-server/internal/domain"
)

func TestRank_SubstringBeatsUnrelated(t *testing.T) {
	products := []domain.Product{
		{ID: "boca", Name: "Boca Juniors"},
		{ID: "river", Name: "River Plate"},
	}

	results := Rank(products, "boca")

	require.Len(t, results, 1)
	assert.Equal(t, "boca", results[0].Product.ID)
	// +80 substring, +25 for the word "boca" in the name.
	assert.Equal(t, 105.0, results[0].Score)
}

func TestRank_EmptyQuery(t *testing.T) {
	products := []domain.Product{{Name: "Boca Juniors", InStock: true, Featured: true}}

	for _, q := range []string{"", "   ", "\t\n"} {
		results := Rank(products, q)
		require.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestScore_ExactNameIsCaseInsensitive(t *testing.T) {
	p := domain.Product{Name: "Boca"}

	assert.Equal(t, 125.0, Score(&p, "  BOCA "))
}

func TestScore_FuzzyName(t *testing.T) {
	// "bica" is one edit away from "boca": similarity 0.75.
	p := domain.Product{Name: "Boca"}
	assert.InDelta(t, 45.0, Score(&p, "bica"), 1e-9)

	// The query contains the whole name: similarity short-circuits to 0.8.
	assert.InDelta(t, 48.0, Score(&p, "bocaa"), 1e-9)
}

func TestScore_FuzzyBelowThresholdAddsNothing(t *testing.T) {
	p := domain.Product{Name: "Independiente"}

	assert.Equal(t, 0.0, Score(&p, "zzz"))
}

func TestScore_CategoryAndBoosts(t *testing.T) {
	p := domain.Product{
		Name:          "Camiseta Titular",
		Category:      "afc",
		InStock:       true,
		Featured:      true,
		Price:         75,
		OriginalPrice: 90,
	}

	// +40 category, +10 in stock, +15 featured, +5 discount.
	assert.Equal(t, 70.0, Score(&p, "afc"))
}

func TestScore_SubcategoryDescriptionAndWords(t *testing.T) {
	p := domain.Product{
		Name:        "X",
		Subcategory: "retro boca",
		Description: "camiseta retro de boca",
	}

	// +30 subcategory, +20 description, +10 for "retro" in the description.
	assert.Equal(t, 60.0, Score(&p, "retro"))
}

func TestScore_ShortWordsEarnNoBonus(t *testing.T) {
	p := domain.Product{Name: "El Clasico"}

	assert.Equal(t, 80.0, Score(&p, "el"))
}

func TestScore_PerWordBonusIsAdditive(t *testing.T) {
	p := domain.Product{Name: "Boca Juniors Retro", Description: "retro 1981"}

	// "boca retro" is not a substring of the name and too far for fuzzy.
	// Words: boca (+25), retro (+25 name, +10 description).
	assert.Equal(t, 60.0, Score(&p, "boca retro"))
}

func TestRank_ExcludesScoreAtFloor(t *testing.T) {
	products := []domain.Product{{ID: "z", Name: "Zzz", InStock: true}}

	assert.Empty(t, Rank(products, "boca"))
}

func TestRank_OrdersByScoreThenInputOrder(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Name: "Boca Juniors Alternativa"},
		{ID: "b", Name: "Boca Juniors Titular", Featured: true},
		{ID: "c", Name: "Boca Juniors Arquero"},
	}

	results := Rank(products, "boca")

	require.Len(t, results, 3)
	assert.Equal(t, "b", results[0].Product.ID)
	assert.Equal(t, "a", results[1].Product.ID)
	assert.Equal(t, "c", results[2].Product.ID)
}

func TestRank_CapsResults(t *testing.T) {
	products := make([]domain.Product, 0, 75)
	for i := range 75 {
		products = append(products, domain.Product{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Boca %d", i)})
	}

	results := Rank(products, "boca")

	require.Len(t, results, MaxResults)
	assert.Equal(t, "p0", results[0].Product.ID)
	assert.Equal(t, "p49", results[MaxResults-1].Product.ID)
}

func TestRank_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("results are above the floor, sorted and capped", prop.ForAll(
		func(names []string, query string) bool {
			products := make([]domain.Product, len(names))
			for i, n := range names {
				products[i] = domain.Product{ID: fmt.Sprint(i), Name: n, InStock: i%2 == 0}
			}

			results := Rank(products, query)
			if len(results) > MaxResults {
				return false
			}
			for i, r := range results {
				if r.Score <= 10 {
					return false
				}
				if i > 0 && results[i-1].Score < r.Score {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
