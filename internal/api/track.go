package api

import "context"

// ClickEvent is the payload for click-tracking endpoints
type ClickEvent struct {
	BrandID string `json:"brandId"`
	Source  string `json:"source"`
}

// TrackBrandClick reports a mall brand tap. Tracking is fire-and-forget at
// the action layer; this function still returns the error so the spool can
// retry delivery later.
func (c *Client) TrackBrandClick(ctx context.Context, event ClickEvent) error {
	return c.postJSON(ctx, "/api/mall/brands/click", event, nil)
}

// TrackAffiliateClick registers an affiliate link-out so the purchase can
// be attributed when the network reports it.
func (c *Client) TrackAffiliateClick(ctx context.Context, event ClickEvent) error {
	return c.postJSON(ctx, "/api/cash-store/click", event, nil)
}
