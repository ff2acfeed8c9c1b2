package domain

import (
	"slices"
	"time"
)

// StockStatus describes how a product can be bought.
type StockStatus string

// Stock statuses accepted by the catalog.
const (
	StockInStock          StockStatus = "in_stock"
	StockAvailableOnOrder StockStatus = "available_on_order"
)

// Valid reports whether s is a known stock status.
func (s StockStatus) Valid() bool {
	return s == StockInStock || s == StockAvailableOnOrder
}

// CreatedByAdmin is the attribution stamped on every catalog-originated write.
const CreatedByAdmin = "admin"

// Product is a jersey listed in the storefront catalog.
type Product struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name" validate:"required,max=200"`
	Slug               string      `json:"slug" validate:"omitempty,slug"`
	Description        string      `json:"description,omitempty" validate:"max=4000"`
	Category           string      `json:"category" validate:"required"`
	Subcategory        string      `json:"subcategory,omitempty"`
	Price              float64     `json:"price" validate:"gte=0"`
	OriginalPrice      float64     `json:"originalPrice,omitempty" validate:"gte=0"`
	SelectedImages     []string    `json:"selectedImages"`
	AllAvailableImages []string    `json:"allAvailableImages"`
	Sizes              []string    `json:"sizes,omitempty"`
	Colors             []string    `json:"colors,omitempty"`
	InStock            bool        `json:"inStock"`
	StockStatus        StockStatus `json:"stockStatus" validate:"omitempty,stockstatus"`
	Featured           bool        `json:"featured"`
	CreatedAt          time.Time   `json:"createdAt,omitzero"`
	CreatedBy          string      `json:"createdBy,omitempty"`
	LastModified       time.Time   `json:"lastModified,omitzero"`
}

// HasDiscount reports whether the product is sold below its original price.
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice > p.Price
}

// MissingImages returns the selected images absent from the available set, in order.
// An empty available set means nothing is missing.
func (p *Product) MissingImages() []string {
	if len(p.AllAvailableImages) == 0 {
		return nil
	}
	var missing []string
	for _, img := range p.SelectedImages {
		if !slices.Contains(p.AllAvailableImages, img) {
			missing = append(missing, img)
		}
	}
	return missing
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	p.SelectedImages = slices.Clone(p.SelectedImages)
	p.AllAvailableImages = slices.Clone(p.AllAvailableImages)
	p.Sizes = slices.Clone(p.Sizes)
	p.Colors = slices.Clone(p.Colors)
	return p
}

// ProductPatch is a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name          *string      `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string      `json:"description,omitempty" validate:"omitempty,max=4000"`
	Category      *string      `json:"category,omitempty"`
	Subcategory   *string      `json:"subcategory,omitempty"`
	Price         *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	OriginalPrice *float64     `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Sizes         []string     `json:"sizes,omitempty"`
	Colors        []string     `json:"colors,omitempty"`
	InStock       *bool        `json:"inStock,omitempty"`
	StockStatus   *StockStatus `json:"stockStatus,omitempty" validate:"omitempty,stockstatus"`
	Featured      *bool        `json:"featured,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (pp *ProductPatch) IsEmpty() bool {
	return pp.Name == nil && pp.Description == nil && pp.Category == nil &&
		pp.Subcategory == nil && pp.Price == nil && pp.OriginalPrice == nil &&
		pp.Sizes == nil && pp.Colors == nil && pp.InStock == nil &&
		pp.StockStatus == nil && pp.Featured == nil
}

// Apply copies the set fields of the patch onto p.
func (pp *ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Subcategory != nil {
		p.Subcategory = *pp.Subcategory
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.OriginalPrice != nil {
		p.OriginalPrice = *pp.OriginalPrice
	}
	if pp.Sizes != nil {
		p.Sizes = slices.Clone(pp.Sizes)
	}
	if pp.Colors != nil {
		p.Colors = slices.Clone(pp.Colors)
	}
	if pp.InStock != nil {
		p.InStock = *pp.InStock
	}
	if pp.StockStatus != nil {
		p.StockStatus = *pp.StockStatus
	}
	if pp.Featured != nil {
		p.Featured = *pp.Featured
	}
}
