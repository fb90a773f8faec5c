package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rezapp/marketplace-service/internal/section"
)

// GetScreen returns the aggregated view for a screen, fetching upstream only
// when the cached snapshot has gone stale.
// @Summary Get aggregated screen data
// @Description Returns the current snapshot plus loading state for the mall or cash-store screen
// @Tags sections
// @Produce json
// @Param screen path string true "Screen name" Enums(mall, cash-store)
// @Success 200 {object} section.View
// @Failure 404 {object} map[string]string "Unknown screen"
// @Failure 502 {object} map[string]string "Upstream failure with no cached data"
// @Router /api/v1/screens/{screen} [get]
func (h *Handlers) GetScreen(c *gin.Context) {
	agg := h.aggregatorFor(c.Param("screen"))
	if agg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown screen"})
		return
	}

	err := agg.Load(c.Request.Context())
	h.respondView(c, agg, err)
}

// RefreshScreen forces a refetch, bypassing the freshness gate.
// @Summary Force-refresh a screen
// @Description Bypasses the cache TTL and refetches the full batch
// @Tags sections
// @Produce json
// @Param screen path string true "Screen name" Enums(mall, cash-store)
// @Success 200 {object} section.View
// @Failure 404 {object} map[string]string "Unknown screen"
// @Failure 502 {object} map[string]string "Upstream failure with no cached data"
// @Router /internal/screens/{screen}/refresh [post]
func (h *Handlers) RefreshScreen(c *gin.Context) {
	agg := h.aggregatorFor(c.Param("screen"))
	if agg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown screen"})
		return
	}

	err := agg.Refresh(c.Request.Context())
	h.respondView(c, agg, err)
}

// LoadMoreRequest names the paginated section to extend.
type LoadMoreRequest struct {
	Section string `json:"section" binding:"required"`
}

// LoadMore appends the next page of a paginated section to the snapshot.
// @Summary Load the next page of a section
// @Tags sections
// @Accept json
// @Produce json
// @Param screen path string true "Screen name" Enums(mall, cash-store)
// @Param request body LoadMoreRequest true "Section to extend"
// @Success 200 {object} section.View
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Unknown screen"
// @Router /api/v1/screens/{screen}/more [post]
func (h *Handlers) LoadMore(c *gin.Context) {
	agg := h.aggregatorFor(c.Param("screen"))
	if agg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown screen"})
		return
	}

	var req LoadMoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := agg.LoadMore(c.Request.Context(), req.Section)
	h.respondView(c, agg, err)
}

// respondView serves the aggregator's current view. Stale data beats an
// error page: a failed fetch still returns 200 as long as any snapshot has
// ever been committed, with the error message carried in the view.
func (h *Handlers) respondView(c *gin.Context, agg *section.Aggregator, err error) {
	v := agg.View()
	if err != nil && (v.Snapshot == nil || v.IsInitialLoad) {
		c.JSON(http.StatusBadGateway, gin.H{"error": v.Error})
		return
	}
	c.JSON(http.StatusOK, v)
}
