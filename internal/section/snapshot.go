package section

import (
	"time"

	"github.com/rezapp/marketplace-service/internal/catalog"
)

// Snapshot is one immutable, internally consistent view of a screen's data.
// Aggregators publish snapshots atomically: readers either see the previous
// snapshot in full or the new one in full, never a mix.
type Snapshot struct {
	Banners           []catalog.Banner           `json:"banners"`
	FeaturedBrands    []catalog.Brand            `json:"featuredBrands"`
	TopBrands         []catalog.Brand            `json:"topBrands"`
	Categories        []catalog.Category         `json:"categories"`
	Collections       []catalog.Collection       `json:"collections,omitempty"`
	Offers            []catalog.Offer            `json:"offers,omitempty"`
	TrendingDeals     []catalog.Offer            `json:"trendingDeals,omitempty"`
	HighCashbackDeals []catalog.Offer            `json:"highCashbackDeals,omitempty"`
	Coupons           []catalog.Coupon           `json:"coupons,omitempty"`
	QuickActions      []catalog.QuickAction      `json:"quickActions,omitempty"`
	Summary           *catalog.CashbackSummary   `json:"summary,omitempty"`
	Activity          []catalog.CashbackActivity `json:"activity,omitempty"`
	FetchedAt         time.Time                  `json:"fetchedAt"`
}

// clone returns a shallow copy suitable for copy-on-write updates. Slices are
// shared with the original, so callers extending a section must replace the
// slice rather than append in place.
func (s *Snapshot) clone() *Snapshot {
	cp := *s
	return &cp
}

// View is what a consumer reads: the current snapshot plus the aggregator's
// loading flags and last error message.
type View struct {
	Snapshot      *Snapshot `json:"snapshot"`
	IsLoading     bool      `json:"isLoading"`
	IsRefreshing  bool      `json:"isRefreshing"`
	IsInitialLoad bool      `json:"isInitialLoad"`
	Error         string    `json:"error,omitempty"`
}
