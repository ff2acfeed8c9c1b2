package category

import "context"

// DefaultCategories is the built-in category list.
var DefaultCategories = []Category{
	{Name: "AFC", Slug: "afc", Description: "Clubes del fútbol argentino"},
	{Name: "Selecciones", Slug: "selecciones", Description: "Selecciones nacionales"},
	{Name: "Premier League", Slug: "premier-league"},
	{Name: "La Liga", Slug: "la-liga"},
	{Name: "Serie A", Slug: "serie-a"},
	{Name: "Bundesliga", Slug: "bundesliga"},
	{Name: "Ligue 1", Slug: "ligue-1"},
	{Name: "Brasileirão", Slug: "brasileirao"},
	{Name: "MLS", Slug: "mls"},
	{Name: "Retro", Slug: "retro", Description: "Camisetas históricas"},
}

// StaticSource serves a fixed category list.
type StaticSource struct {
	categories []Category
}

// NewStaticSource returns a source over categories, deduplicated once.
// A nil list means DefaultCategories.
func NewStaticSource(categories []Category) *StaticSource {
	if categories == nil {
		categories = DefaultCategories
	}
	return &StaticSource{categories: Dedupe(categories)}
}

// Categories implements Source.
func (s *StaticSource) Categories(context.Context) []Category {
	return clone(s.categories)
}
