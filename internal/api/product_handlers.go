package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camiseteria/camiseteria-server/internal/domain"
	"github.com/camiseteria/camiseteria-server/internal/http/response"
	"github.com/camiseteria/camiseteria-server/internal/service"
)

// handleListProducts returns storefront views of the catalog.
// Query: category, featured, inStock.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := service.ProductFilter{Category: r.URL.Query().Get("category")}

	var err error
	if filter.Featured, err = parseBoolParam(r, "featured"); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if filter.InStock, err = parseBoolParam(r, "inStock"); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	products, err := s.services.Catalog.ListProducts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Cache-Control", CacheCatalog)
	response.Success(w, s.services.Enricher.Products(r.Context(), products), s.logger)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.services.Catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Cache-Control", CacheCatalog)
	response.Success(w, s.services.Enricher.Product(r.Context(), product), s.logger)
}

// handleSaveProduct creates or replaces a product.
func (s *Server) handleSaveProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := decodeJSON(r, &product); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	saved, err := s.services.Catalog.SaveProduct(r.Context(), product)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, saved, s.logger)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if err := decodeJSON(r, &patch); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	updated, err := s.services.Catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, updated, s.logger)
}

func (s *Server) handleBulkUpdateProducts(w http.ResponseWriter, r *http.Request) {
	var req service.BulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.services.Catalog.BulkUpdate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, result, fmt.Sprintf("%d products updated", len(result.Updated)), s.logger)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	deleted, err := s.services.Catalog.DeleteProduct(r.Context(), productID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if !deleted {
		response.NotFound(w, fmt.Sprintf("product %s not found", productID), s.logger)
		return
	}

	response.SuccessMessage(w, map[string]string{"id": productID}, "product deleted", s.logger)
}

func (s *Server) handleUpdateProductImages(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateImagesRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	updated, err := s.services.Catalog.UpdateImages(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, updated, s.logger)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Catalog.Stats(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Cache-Control", CacheNoStore)
	response.Success(w, stats, s.logger)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.services.Catalog.ListCategories(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Cache-Control", CacheCatalog)
	response.Success(w, categories, s.logger)
}
