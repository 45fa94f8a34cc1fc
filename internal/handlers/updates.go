package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/middleware"
	"github.com/priceapp/backoffice/internal/priceupdate"
)

// UpdateTextRequest carries a pasted price list
type UpdateTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// ConfirmUpdateItem is one operator-reviewed candidate row
type ConfirmUpdateItem struct {
	Name     string `json:"name" binding:"required"`
	Price    int    `json:"price" binding:"min=0"`
	OldPrice int    `json:"oldPrice" binding:"min=0"`
	RedPrice bool   `json:"redPrice"`
}

// ConfirmUpdatesRequest is the full reviewed update set
type ConfirmUpdatesRequest struct {
	Items []ConfirmUpdateItem `json:"items" binding:"required"`
}

// UpdateText ingests the pasted-text price protocol
// POST /updates/text
func UpdateText(c *gin.Context) {
	var req UpdateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := middleware.SessionID(c)
	result, err := matcher.MatchText(c.Request.Context(), sessionID, req.Text)
	if err != nil {
		log.Error().Err(err).Msg("Text price ingestion failed")
		respondStoreError(c, err)
		return
	}

	ingestsTotal.WithLabelValues("text").Inc()
	ingestRecords.Observe(float64(result.Parsed))
	c.JSON(http.StatusOK, ingestResponse(result))
}

// UpdateFile ingests an uploaded price export (CSV or XLSX)
// POST /updates/file
func UpdateFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	sessionID := middleware.SessionID(c)
	result, err := matcher.MatchFile(c.Request.Context(), sessionID, fileHeader.Filename, content)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("File price ingestion failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingestsTotal.WithLabelValues("file").Inc()
	ingestRecords.Observe(float64(result.Parsed))
	c.JSON(http.StatusOK, ingestResponse(result))
}

// ListUpdates returns the matched update set for review
// GET /updates
func ListUpdates(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	candidates, err := store.ListUpdateCandidates(c.Request.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list update candidates")
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// ConfirmUpdates applies the reviewed update set to the inventory
// POST /updates/confirm
func ConfirmUpdates(c *gin.Context) {
	var req ConfirmUpdatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := middleware.SessionID(c)
	now := time.Now()
	candidates := make([]database.UpdateCandidate, 0, len(req.Items))
	for _, item := range req.Items {
		candidates = append(candidates, database.UpdateCandidate{
			SessionID: sessionID,
			Name:      item.Name,
			Price:     item.Price,
			OldPrice:  item.OldPrice,
			RedPrice:  item.RedPrice,
			UpdateAt:  now,
		})
	}

	result, err := store.ApplyUpdates(c.Request.Context(), sessionID, candidates)
	if err != nil {
		log.Error().Err(err).Msg("Failed to apply confirmed updates")
		respondStoreError(c, err)
		return
	}

	updatesApplied.Add(float64(result.Applied))
	updatesSkipped.Add(float64(len(result.Skipped)))

	_, missing, err := store.CountCandidates(c.Request.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count candidates after apply")
		respondStoreError(c, err)
		return
	}

	next := "queue"
	if missing > 0 {
		next = "missing"
	}
	c.JSON(http.StatusOK, gin.H{
		"applied": result.Applied,
		"skipped": result.Skipped,
		"next":    next,
	})
}

func ingestResponse(result *priceupdate.Result) gin.H {
	next := "queue"
	switch {
	case result.Updates > 0:
		next = "confirm"
	case result.Missing > 0:
		next = "missing"
	}
	return gin.H{
		"parsed":       result.Parsed,
		"updateCount":  result.Updates,
		"missingCount": result.Missing,
		"next":         next,
	}
}
