package domain

// Variant is a curated candidate product picked from a CDN album,
// waiting to be promoted into a full Product by a sync run.
type Variant struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Slug          string   `json:"slug" validate:"required,slug"`
	Description   string   `json:"description,omitempty"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Images        []string `json:"images"`
	Price         float64  `json:"price,omitempty" validate:"gte=0"`
	OriginalPrice float64  `json:"originalPrice,omitempty" validate:"gte=0"`
}

// SyncResult reports the outcome of a sync run.
type SyncResult struct {
	RunID      string   `json:"runId"`
	AlbumPath  string   `json:"albumPath"`
	Category   string   `json:"category"`
	Count      int      `json:"count"`
	ProductIDs []string `json:"productIds"`
}
