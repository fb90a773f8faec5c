package section

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rezapp/marketplace-service/internal/api"
	"github.com/rezapp/marketplace-service/internal/catalog"
)

const (
	cashBrandPageSize    = 20
	cashActivityPageSize = 25
)

// NewCashStore builds the aggregator behind the cash-store screen. Its batch
// is wider than the mall's: affiliate brands, categories, trending and
// high-cashback deals, coupons, the wallet summary and recent activity, all
// fetched in parallel. Both the brands and activity sections page on demand.
func NewCashStore(client *api.Client, opts Options) *Aggregator {
	a := newAggregator("cash-store", nil, seedCashStoreSnapshot(), opts)
	a.batch = func(ctx context.Context, now time.Time) (*Snapshot, error) {
		return fetchCashStore(ctx, client, now)
	}
	a.more["brands"] = func(ctx context.Context, page int, snap *Snapshot) (*Snapshot, error) {
		return moreCashBrands(ctx, client, a.clock(), page, snap)
	}
	a.more["activity"] = func(ctx context.Context, page int, snap *Snapshot) (*Snapshot, error) {
		return moreCashActivity(ctx, client, page, snap)
	}
	a.pages["brands"] = 1
	a.pages["activity"] = 1
	return a
}

func fetchCashStore(ctx context.Context, client *api.Client, now time.Time) (*Snapshot, error) {
	var (
		brands     *api.AffiliateBrandPage
		categories []api.CategoryRecord
		trending   []api.OfferRecord
		highCash   []api.OfferRecord
		coupons    []api.CouponRecord
		summary    *api.SummaryRecord
		activity   *api.ActivityPage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		brands, err = client.CashStoreBrands(gctx, api.BrandQuery{Page: 1, Limit: cashBrandPageSize})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = client.MallCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		trending, err = client.TrendingDeals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		highCash, err = client.HighCashbackDeals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		coupons, err = client.Coupons(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = client.CashbackSummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		activity, err = client.CashbackHistory(gctx, 1, cashActivityPageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		TopBrands:    make([]catalog.Brand, 0, len(brands.Items)),
		Categories:   make([]catalog.Category, 0, len(categories)),
		Coupons:      make([]catalog.Coupon, 0, len(coupons)),
		Activity:     make([]catalog.CashbackActivity, 0, len(activity.Items)),
		QuickActions: DefaultQuickActions(),
	}
	for _, rec := range brands.Items {
		brand := catalog.BrandFromAffiliate(rec, now)
		snap.TopBrands = append(snap.TopBrands, brand)
		if rec.IsFeatured {
			snap.FeaturedBrands = append(snap.FeaturedBrands, brand)
		}
	}
	for _, rec := range categories {
		snap.Categories = append(snap.Categories, catalog.CategoryFromRecord(rec))
	}
	for _, rec := range coupons {
		snap.Coupons = append(snap.Coupons, catalog.CouponFromRecord(rec))
	}
	for _, rec := range activity.Items {
		snap.Activity = append(snap.Activity, catalog.ActivityFromRecord(rec))
	}
	if len(trending) > 0 {
		snap.TrendingDeals = make([]catalog.Offer, 0, len(trending))
		for _, rec := range trending {
			snap.TrendingDeals = append(snap.TrendingDeals, catalog.OfferFromRecord(rec))
		}
	} else {
		snap.TrendingDeals = DefaultTravelDeals()
	}
	snap.HighCashbackDeals = make([]catalog.Offer, 0, len(highCash))
	for _, rec := range highCash {
		snap.HighCashbackDeals = append(snap.HighCashbackDeals, catalog.OfferFromRecord(rec))
	}
	if summary != nil {
		s := catalog.SummaryFromRecord(*summary)
		snap.Summary = &s
	}
	return snap, nil
}

func moreCashBrands(ctx context.Context, client *api.Client, now time.Time, page int, snap *Snapshot) (*Snapshot, error) {
	brands, err := client.CashStoreBrands(ctx, api.BrandQuery{Page: page, Limit: cashBrandPageSize})
	if err != nil {
		return nil, err
	}

	next := snap.clone()
	next.TopBrands = make([]catalog.Brand, len(snap.TopBrands), len(snap.TopBrands)+len(brands.Items))
	copy(next.TopBrands, snap.TopBrands)
	for _, rec := range brands.Items {
		next.TopBrands = append(next.TopBrands, catalog.BrandFromAffiliate(rec, now))
	}
	return next, nil
}

func moreCashActivity(ctx context.Context, client *api.Client, page int, snap *Snapshot) (*Snapshot, error) {
	activity, err := client.CashbackHistory(ctx, page, cashActivityPageSize)
	if err != nil {
		return nil, err
	}

	next := snap.clone()
	next.Activity = make([]catalog.CashbackActivity, len(snap.Activity), len(snap.Activity)+len(activity.Items))
	copy(next.Activity, snap.Activity)
	for _, rec := range activity.Items {
		next.Activity = append(next.Activity, catalog.ActivityFromRecord(rec))
	}
	return next, nil
}
