// Package dto provides the client-facing shapes of catalog data.
//
// Storefront views are denormalized: a product carries its category display
// name, formatted price labels and a ready-to-render cover URL so the page
// never needs a second request.
package dto

import (
	"github.com/camiseteria/camiseteria-server/internal/category"
	"github.com/camiseteria/camiseteria-server/internal/domain"
)

// Product is the storefront representation of a product.
type Product struct {
	*domain.Product // Embeds all stored fields

	CategoryName       string `json:"categoryName,omitempty"`
	PriceLabel         string `json:"priceLabel"`
	OriginalPriceLabel string `json:"originalPriceLabel,omitempty"` // Only set when discounted
	DiscountPercent    int    `json:"discountPercent,omitempty"`
	CoverImage         string `json:"coverImage,omitempty"`
}

// Category is a category with the number of products filed under it.
type Category struct {
	category.Category
	ProductCount int `json:"productCount"`
}
