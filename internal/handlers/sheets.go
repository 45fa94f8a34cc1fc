package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/middleware"
	"github.com/priceapp/backoffice/internal/sheet"
)

// GetSheets renders the session's queue as printable pages
// GET /sheets
func GetSheets(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	entries, err := store.ListSheetEntries(c.Request.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load print queue for pagination")
		respondStoreError(c, err)
		return
	}

	pages := sheet.Paginate(entries)
	c.JSON(http.StatusOK, gin.H{
		"pages":     pages,
		"pageCount": len(pages),
	})
}
