package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rezapp/marketplace-service/internal/catalog"
)

// CouponsResponse lists the active coupon codes.
type CouponsResponse struct {
	Coupons []catalog.Coupon `json:"coupons"`
}

// ListCoupons returns the current coupon listings.
// @Summary List active coupons
// @Tags coupons
// @Produce json
// @Success 200 {object} CouponsResponse
// @Failure 502 {object} map[string]string "Upstream failure"
// @Router /api/v1/coupons [get]
func (h *Handlers) ListCoupons(c *gin.Context) {
	records, err := h.api.Coupons(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Coupon listing failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "coupons are unavailable right now"})
		return
	}

	resp := CouponsResponse{Coupons: make([]catalog.Coupon, 0, len(records))}
	for _, rec := range records {
		resp.Coupons = append(resp.Coupons, catalog.CouponFromRecord(rec))
	}
	c.JSON(http.StatusOK, resp)
}
