package domain

import "time"

// CatalogVersion is written into every new catalog document.
const CatalogVersion = "1.0.0"

// Database is the single document holding the whole catalog.
type Database struct {
	Version     string                       `json:"version"`
	Products    map[string]Product           `json:"products"`
	Categories  map[string]CategoryAggregate `json:"categories"`
	Metadata    Metadata                     `json:"metadata"`
	LastUpdated time.Time                    `json:"lastUpdated,omitzero"`
}

// CategoryAggregate holds the derived per-category product count.
type CategoryAggregate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ProductCount int       `json:"productCount"`
	LastModified time.Time `json:"lastModified,omitzero"`
}

// Metadata holds the derived catalog-wide counters.
type Metadata struct {
	TotalProducts int       `json:"totalProducts"`
	TotalImages   int       `json:"totalImages"`
	LastSync      time.Time `json:"lastSync,omitzero"`
}

// NewDatabase returns an empty catalog document.
func NewDatabase() *Database {
	return &Database{
		Version:    CatalogVersion,
		Products:   make(map[string]Product),
		Categories: make(map[string]CategoryAggregate),
	}
}

// Normalize fills nil maps left by decoding a sparse document.
func (db *Database) Normalize() {
	if db.Version == "" {
		db.Version = CatalogVersion
	}
	if db.Products == nil {
		db.Products = make(map[string]Product)
	}
	if db.Categories == nil {
		db.Categories = make(map[string]CategoryAggregate)
	}
}

// Stats is a read-side summary of the catalog.
type Stats struct {
	TotalProducts    int            `json:"totalProducts"`
	TotalImages      int            `json:"totalImages"`
	FeaturedProducts int            `json:"featuredProducts"`
	InStockProducts  int            `json:"inStockProducts"`
	CategoryCounts   map[string]int `json:"categoryCounts"`
	LastUpdated      time.Time      `json:"lastUpdated,omitzero"`
	LastSync         time.Time      `json:"lastSync,omitzero"`
}
