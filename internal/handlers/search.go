package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rezapp/marketplace-service/internal/catalog"
	"github.com/rezapp/marketplace-service/internal/format"
)

// SearchResponse carries the transformed search hits.
type SearchResponse struct {
	Brands []catalog.Brand `json:"brands"`
	Query  string          `json:"query"`
}

// SearchBrands searches brands by name. Queries shorter than two characters
// resolve empty without an upstream call.
// @Summary Search brands
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} SearchResponse
// @Failure 502 {object} map[string]string "Upstream failure"
// @Router /api/v1/search [get]
func (h *Handlers) SearchBrands(c *gin.Context) {
	query := format.FoldQuery(c.Query("q"))

	records, err := h.api.SearchBrands(c.Request.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Str("query", query).Msg("Brand search failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "search is unavailable right now"})
		return
	}

	resp := SearchResponse{Query: query, Brands: make([]catalog.Brand, 0, len(records))}
	now := h.now()
	for _, rec := range records {
		resp.Brands = append(resp.Brands, catalog.BrandFromAffiliate(rec, now))
	}
	c.JSON(http.StatusOK, resp)
}
