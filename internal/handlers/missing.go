package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/middleware"
)

// ResolveMissingItem is one completed missing-product row
type ResolveMissingItem struct {
	SKU        *string `json:"sku"`
	Barcode    string  `json:"barcode" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Price      int     `json:"price" binding:"min=0"`
	OldPrice   int     `json:"oldPrice" binding:"min=0"`
	RedPrice   bool    `json:"redPrice"`
	CountryID  int64   `json:"countryId" binding:"required"`
	CategoryID int64   `json:"categoryId" binding:"required"`
}

// ResolveMissingRequest is the full completed missing set
type ResolveMissingRequest struct {
	Items []ResolveMissingItem `json:"items" binding:"required,min=1"`
}

// ListMissing returns the unmatched set plus the reference lists the
// completion form needs
// GET /missing
func ListMissing(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)

	candidates, err := store.ListMissingCandidates(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list missing candidates")
		respondStoreError(c, err)
		return
	}
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
		"candidates": candidates,
		"countries":  countries,
		"categories": categories,
	})
}

// ResolveMissing turns the completed missing set into new products.
// A duplicate barcode rejects the whole batch with 409 so the operator
// can correct and resubmit.
// POST /missing/resolve
func ResolveMissing(c *gin.Context) {
	var req ResolveMissingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products := make([]database.Product, 0, len(req.Items))
	for _, item := range req.Items {
		products = append(products, database.Product{
			SKU:        item.SKU,
			Barcode:    item.Barcode,
			Name:       item.Name,
			Price:      item.Price,
			OldPrice:   item.OldPrice,
			RedPrice:   item.RedPrice,
			CountryID:  item.CountryID,
			CategoryID: item.CategoryID,
		})
	}

	sessionID := middleware.SessionID(c)
	if err := store.ResolveMissing(c.Request.Context(), sessionID, products); err != nil {
		log.Error().Err(err).Msg("Failed to resolve missing products")
		respondStoreError(c, err)
		return
	}

	productsCreated.WithLabelValues("missing").Add(float64(len(products)))
	c.JSON(http.StatusOK, gin.H{
		"created": len(products),
		"next":    "queue",
	})
}
