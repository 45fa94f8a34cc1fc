package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/middleware"
)

// ListProductsRequest represents query parameters for the product list
type ListProductsRequest struct {
	Limit  int `form:"limit" binding:"min=0,max=500"`
	Offset int `form:"offset" binding:"min=0"`
}

// CreateProductRequest represents a manual product entry
type CreateProductRequest struct {
	SKU        *string `json:"sku"`
	Barcode    string  `json:"barcode" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Price      int     `json:"price" binding:"min=0"`
	OldPrice   int     `json:"oldPrice" binding:"min=0"`
	RedPrice   bool    `json:"redPrice"`
	CountryID  int64   `json:"countryId" binding:"required"`
	CategoryID int64   `json:"categoryId" binding:"required"`
}

// ListProducts returns inventory records, most recently updated first
// GET /products?limit=100&offset=0
func ListProducts(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit == 0 {
		req.Limit = 100
	}

	products, err := store.ListProducts(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateProduct creates one inventory record from the manual entry form
// POST /products
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := &database.Product{
		SKU:        req.SKU,
		Barcode:    req.Barcode,
		Name:       req.Name,
		Price:      req.Price,
		OldPrice:   req.OldPrice,
		RedPrice:   req.RedPrice,
		CountryID:  req.CountryID,
		CategoryID: req.CategoryID,
	}

	id, err := store.CreateProduct(c.Request.Context(), product)
	if err != nil {
		log.Error().Err(err).Str("barcode", req.Barcode).Msg("Failed to create product")
		respondStoreError(c, err)
		return
	}

	productsCreated.WithLabelValues("manual").Inc()
	log.Info().Int64("id", id).Str("session_id", middleware.SessionID(c)).
		Str("name", req.Name).Msg("Product created")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListReferences returns the country and category reference lists
// GET /references
func ListReferences(c *gin.Context) {
	ctx := c.Request.Context()

	countries, err := store.ListCountries(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list countries")
		respondStoreError(c, err)
		return
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"countries":  countries,
		"categories": categories,
	})
}
