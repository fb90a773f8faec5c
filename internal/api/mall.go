package api

import (
	"context"
	"net/url"
)

// BrandQuery holds the common listing filters for brand resources
type BrandQuery struct {
	Page     int
	Limit    int
	Category string
	Featured bool
}

func (q BrandQuery) values() url.Values {
	v := pageQuery(q.Page, q.Limit)
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Featured {
		v.Set("featured", "true")
	}
	return v
}

// StorePage is a paginated slice of mall store records
type StorePage struct {
	Items []StoreRecord
	Total int
	Pages int
}

// MallBrands lists mall stores. This is primary homepage content: errors
// propagate to the caller.
func (c *Client) MallBrands(ctx context.Context, query BrandQuery) (*StorePage, error) {
	var items []StoreRecord
	meta, err := c.getJSON(ctx, "/api/mall/brands", query.values(), &items)
	if err != nil {
		return nil, err
	}

	page := &StorePage{Items: items, Total: len(items), Pages: 1}
	if meta != nil && meta.Pagination != nil {
		page.Total = meta.Pagination.Total
		page.Pages = meta.Pagination.Pages
	}
	return page, nil
}

// MallCategories lists the mall category taxonomy
func (c *Client) MallCategories(ctx context.Context) ([]CategoryRecord, error) {
	var items []CategoryRecord
	if _, err := c.getJSON(ctx, "/api/mall/categories", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MallCollections lists curated collections
func (c *Client) MallCollections(ctx context.Context) ([]CollectionRecord, error) {
	var items []CollectionRecord
	if _, err := c.getJSON(ctx, "/api/mall/collections", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MallOffers lists current mall offers
func (c *Client) MallOffers(ctx context.Context) ([]OfferRecord, error) {
	var items []OfferRecord
	if _, err := c.getJSON(ctx, "/api/mall/offers", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MallBanners lists hero banners. Callers fall back to injected defaults
// when the backend has none configured.
func (c *Client) MallBanners(ctx context.Context) ([]BannerRecord, error) {
	var items []BannerRecord
	if _, err := c.getJSON(ctx, "/api/mall/banners", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
