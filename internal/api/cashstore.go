package api

import "context"

// AffiliateBrandPage is a paginated slice of cash-store brands
type AffiliateBrandPage struct {
	Items []AffiliateBrandRecord
	Total int
	Pages int
}

// CashStoreBrands lists affiliate cash-store brands
func (c *Client) CashStoreBrands(ctx context.Context, query BrandQuery) (*AffiliateBrandPage, error) {
	var items []AffiliateBrandRecord
	meta, err := c.getJSON(ctx, "/api/cash-store/brands", query.values(), &items)
	if err != nil {
		return nil, err
	}

	page := &AffiliateBrandPage{Items: items, Total: len(items), Pages: 1}
	if meta != nil && meta.Pagination != nil {
		page.Total = meta.Pagination.Total
		page.Pages = meta.Pagination.Pages
	}
	return page, nil
}

// CashbackSummary fetches the user's cashback wallet summary
func (c *Client) CashbackSummary(ctx context.Context) (*SummaryRecord, error) {
	var summary SummaryRecord
	if _, err := c.getJSON(ctx, "/api/cashback/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ActivityPage is a paginated slice of cashback history entries
type ActivityPage struct {
	Items []ActivityRecord
	Total int
	Pages int
}

// CashbackHistory lists the user's cashback activity, newest first
func (c *Client) CashbackHistory(ctx context.Context, page, limit int) (*ActivityPage, error) {
	var items []ActivityRecord
	meta, err := c.getJSON(ctx, "/api/cashback/history", pageQuery(page, limit), &items)
	if err != nil {
		return nil, err
	}

	result := &ActivityPage{Items: items, Total: len(items), Pages: 1}
	if meta != nil && meta.Pagination != nil {
		result.Total = meta.Pagination.Total
		result.Pages = meta.Pagination.Pages
	}
	return result, nil
}
