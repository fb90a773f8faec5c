package api

import "context"

// TrendingDeals lists trending deals across both marketplaces
func (c *Client) TrendingDeals(ctx context.Context) ([]OfferRecord, error) {
	var items []OfferRecord
	if _, err := c.getJSON(ctx, "/api/offers/trending", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// HighCashbackDeals lists deals sorted by cashback rate
func (c *Client) HighCashbackDeals(ctx context.Context) ([]OfferRecord, error) {
	var items []OfferRecord
	if _, err := c.getJSON(ctx, "/api/offers/high-cashback", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Coupons lists active coupon codes
func (c *Client) Coupons(ctx context.Context) ([]CouponRecord, error) {
	var items []CouponRecord
	if _, err := c.getJSON(ctx, "/api/coupons", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
