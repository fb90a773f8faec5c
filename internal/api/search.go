package api

import (
	"context"
	"net/url"
	"strings"
)

// SearchBrands searches brands across both marketplaces. Queries shorter
// than MinSearchLength resolve to an empty result set without any network
// call.
func (c *Client) SearchBrands(ctx context.Context, query string) ([]AffiliateBrandRecord, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinSearchLength {
		return []AffiliateBrandRecord{}, nil
	}

	q := url.Values{}
	q.Set("q", query)

	var items []AffiliateBrandRecord
	if _, err := c.getJSON(ctx, "/api/brands/search", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}
