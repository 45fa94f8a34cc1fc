package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/inventory"
	"github.com/priceapp/backoffice/internal/middleware"
	"github.com/priceapp/backoffice/internal/printqueue"
)

// ScanTag queues one price tag from a scanned or typed identifier
// POST /queue/scan
func ScanTag(c *gin.Context) {
	var req printqueue.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := middleware.SessionID(c)
	entry, err := queue.Scan(c.Request.Context(), sessionID, req)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			scansTotal.WithLabelValues("not_found").Inc()
		} else {
			scansTotal.WithLabelValues("error").Inc()
			log.Error().Err(err).Str("input", req.Input).Msg("Scan failed")
		}
		respondStoreError(c, err)
		return
	}

	scansTotal.WithLabelValues("queued").Inc()
	c.JSON(http.StatusCreated, gin.H{
		"entry":    entry,
		"lastScan": queue.LastScan(sessionID),
	})
}

// ManualTag queues one discount tag with operator-set pricing
// POST /queue/manual
func ManualTag(c *gin.Context) {
	var req printqueue.ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := middleware.SessionID(c)
	entry, err := queue.AddManual(c.Request.Context(), sessionID, req)
	if err != nil {
		if !errors.Is(err, inventory.ErrNotFound) {
			log.Error().Err(err).Str("name", req.Name).Msg("Manual tag failed")
		}
		respondStoreError(c, err)
		return
	}

	scansTotal.WithLabelValues("queued").Inc()
	c.JSON(http.StatusCreated, gin.H{
		"entry":    entry,
		"lastScan": queue.LastScan(sessionID),
	})
}

// GetQueue returns the session's queued tags and the scan-form echo
// GET /queue
func GetQueue(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	entries, err := store.ListSheetEntries(c.Request.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list print queue")
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":  entries,
		"lastScan": queue.LastScan(sessionID),
	})
}

// ResetQueue clears all staging sets for the session
// POST /queue/reset
func ResetQueue(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if err := queue.Reset(c.Request.Context(), sessionID); err != nil {
		log.Error().Err(err).Msg("Failed to reset print queue")
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// ListTagTemplates returns the printable tag catalog for the scan form
// GET /tags
func ListTagTemplates(c *gin.Context) {
	tags, err := store.ListTags(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tag templates")
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
