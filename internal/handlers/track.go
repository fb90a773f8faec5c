package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TrackClickRequest identifies the tapped brand and where it was tapped.
type TrackClickRequest struct {
	BrandID string `json:"brandId" binding:"required"`
	Source  string `json:"source"`
	Kind    string `json:"kind" binding:"required,oneof=brand affiliate"`
}

// TrackClick records a brand tap. Always responds 202: tracking is
// best-effort and failures are retried from the spool, never surfaced.
// @Summary Track a brand click
// @Tags tracking
// @Accept json
// @Produce json
// @Param request body TrackClickRequest true "Click event"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string "Bad request"
// @Router /api/v1/clicks [post]
func (h *Handlers) TrackClick(c *gin.Context) {
	var req TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch req.Kind {
	case "affiliate":
		h.tracker.AffiliateClick(ctx, req.BrandID, req.Source)
	default:
		h.tracker.BrandClick(ctx, req.BrandID, req.Source)
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
