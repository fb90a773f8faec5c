package section

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rezapp/marketplace-service/internal/api"
	"github.com/rezapp/marketplace-service/internal/catalog"
)

// mallBrandPageSize is how many stores one mall page carries.
const mallBrandPageSize = 20

// NewMall builds the aggregator behind the mall screen. One batch fetches
// brands, categories, collections, offers and banners in parallel; the
// topBrands section pages on demand.
func NewMall(client *api.Client, opts Options) *Aggregator {
	a := newAggregator("mall", nil, seedMallSnapshot(), opts)
	a.batch = func(ctx context.Context, now time.Time) (*Snapshot, error) {
		return fetchMall(ctx, client, now)
	}
	a.more["topBrands"] = func(ctx context.Context, page int, snap *Snapshot) (*Snapshot, error) {
		return moreMallBrands(ctx, client, a.clock(), page, snap)
	}
	a.pages["topBrands"] = 1
	return a
}

func fetchMall(ctx context.Context, client *api.Client, now time.Time) (*Snapshot, error) {
	var (
		stores      *api.StorePage
		categories  []api.CategoryRecord
		collections []api.CollectionRecord
		offers      []api.OfferRecord
		banners     []api.BannerRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stores, err = client.MallBrands(gctx, api.BrandQuery{Page: 1, Limit: mallBrandPageSize})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = client.MallCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		collections, err = client.MallCollections(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		offers, err = client.MallOffers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		banners, err = client.MallBanners(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		TopBrands:   make([]catalog.Brand, 0, len(stores.Items)),
		Categories:  make([]catalog.Category, 0, len(categories)),
		Collections: make([]catalog.Collection, 0, len(collections)),
		Offers:      make([]catalog.Offer, 0, len(offers)),
	}
	for _, rec := range stores.Items {
		brand := catalog.BrandFromStore(rec, now)
		snap.TopBrands = append(snap.TopBrands, brand)
		if rec.IsFeatured {
			snap.FeaturedBrands = append(snap.FeaturedBrands, brand)
		}
	}
	for _, rec := range categories {
		snap.Categories = append(snap.Categories, catalog.CategoryFromRecord(rec))
	}
	for _, rec := range collections {
		snap.Collections = append(snap.Collections, catalog.CollectionFromRecord(rec))
	}
	for _, rec := range offers {
		snap.Offers = append(snap.Offers, catalog.OfferFromRecord(rec))
	}
	if len(banners) > 0 {
		snap.Banners = make([]catalog.Banner, 0, len(banners))
		for _, rec := range banners {
			snap.Banners = append(snap.Banners, catalog.BannerFromRecord(rec))
		}
	} else {
		snap.Banners = DefaultMallBanners()
	}
	return snap, nil
}

func moreMallBrands(ctx context.Context, client *api.Client, now time.Time, page int, snap *Snapshot) (*Snapshot, error) {
	stores, err := client.MallBrands(ctx, api.BrandQuery{Page: page, Limit: mallBrandPageSize})
	if err != nil {
		return nil, err
	}

	next := snap.clone()
	next.TopBrands = make([]catalog.Brand, len(snap.TopBrands), len(snap.TopBrands)+len(stores.Items))
	copy(next.TopBrands, snap.TopBrands)
	for _, rec := range stores.Items {
		next.TopBrands = append(next.TopBrands, catalog.BrandFromStore(rec, now))
	}
	return next, nil
}
