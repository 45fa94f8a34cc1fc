package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/jobs"
)

// CleanupStagingRequest bounds the manual staging sweep
type CleanupStagingRequest struct {
	MaxAgeHours int `json:"maxAgeHours" binding:"min=0"`
}

// CleanupStaging force-sweeps staging rows older than the given age.
// Rows belonging to live operator sessions are left alone.
// POST /admin/cleanup/staging
func CleanupStaging(c *gin.Context) {
	var req CleanupStagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MaxAgeHours == 0 {
		req.MaxAgeHours = 24
	}

	deleted, err := jobs.CleanupExpiredStaging(c.Request.Context(), time.Duration(req.MaxAgeHours)*time.Hour, sessions.IDs())
	if err != nil {
		log.Error().Err(err).Msg("Manual staging cleanup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}

	log.Info().Int("rows", deleted).Int("max_age_hours", req.MaxAgeHours).
		Msg("Manual staging cleanup completed")
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// DatabaseStats reports connection pool statistics
// GET /admin/db/stats
func DatabaseStats(c *gin.Context) {
	stats := database.Stats()
	if stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not connected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalConns":    stats.TotalConns(),
		"idleConns":     stats.IdleConns(),
		"acquiredConns": stats.AcquiredConns(),
		"maxConns":      stats.MaxConns(),
	})
}
