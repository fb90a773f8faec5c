// Package catalog holds the unified view models the rendering layer
// consumes, plus the pure transforms that build them from backend records.
// View models are constructed once per fetch and never mutated in place.
package catalog

import "time"

// Badge is a display badge on a brand card
type Badge string

const (
	BadgeExclusive Badge = "exclusive"
	BadgePremium   Badge = "premium"
	BadgeNew       Badge = "new"
	BadgeTrending  Badge = "trending"
	BadgeTopRated  Badge = "top-rated"
	BadgeVerified  Badge = "verified"
)

// Tier is the service tier of a brand
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// CategoryLink is the normalized category reference attached to a brand.
// Nil means the brand is uncategorized.
type CategoryLink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Cashback describes a brand's cashback terms
type Cashback struct {
	Percentage     float64 `json:"percentage"`
	MaxAmount      float64 `json:"maxAmount,omitempty"`
	MinPurchase    float64 `json:"minPurchase,omitempty"`
	EarlyBirdBonus float64 `json:"earlyBirdBonus,omitempty"`
}

// Ratings describes a brand's rating aggregates
type Ratings struct {
	Average     float64 `json:"average"`
	Count       int     `json:"count"`
	SuccessRate float64 `json:"successRate"`
}

// Brand is the unified brand shape for both marketplaces. ExternalURL is
// load-bearing: empty means in-app ("earn coins"), non-empty means affiliate
// link-out ("earn cashback").
type Brand struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Logo         string        `json:"logo"`
	Category     *CategoryLink `json:"category"`
	Cashback     Cashback      `json:"cashback"`
	Ratings      Ratings       `json:"ratings"`
	Badges       []Badge       `json:"badges"`
	Tier         Tier          `json:"tier"`
	IsFeatured   bool          `json:"isFeatured"`
	IsNewArrival bool          `json:"isNewArrival"`
	IsLuxury     bool          `json:"isLuxury"`
	IsActive     bool          `json:"isActive"`
	ExternalURL  string        `json:"externalUrl"`
}

// IsAffiliate reports whether tapping the brand should hand off to an
// external browser rather than an in-app detail route.
func (b Brand) IsAffiliate() bool {
	return b.ExternalURL != ""
}

// Category is a mall category tile
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	MaxCashback float64 `json:"maxCashback"`
	BrandCount  int     `json:"brandCount"`
}

// CollectionType classifies curated collections
type CollectionType string

const (
	CollectionCurated      CollectionType = "curated"
	CollectionSeasonal     CollectionType = "seasonal"
	CollectionTrending     CollectionType = "trending"
	CollectionPersonalized CollectionType = "personalized"
)

// Collection is a curated brand collection tile
type Collection struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	Image      string         `json:"image"`
	Type       CollectionType `json:"type"`
	BrandCount int            `json:"brandCount"`
}

// BrandRef is a reduced brand reference embedded in offers and activity
type BrandRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Offer is a time-limited deal. Remaining time is never stored; it is
// derived from ValidUntil and an injected clock at read time.
type Offer struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Brand        BrandRef  `json:"brand"`
	CashbackRate float64   `json:"cashbackRate"`
	Value        float64   `json:"value,omitempty"`
	ValueType    string    `json:"valueType,omitempty"`
	ValidUntil   time.Time `json:"validUntil"`
	Badge        string    `json:"badge,omitempty"`
	BonusCoins   int       `json:"bonusCoins,omitempty"`
}

// DaysRemaining returns whole days until the offer expires, never negative.
func (o Offer) DaysRemaining(now time.Time) int {
	if !o.ValidUntil.After(now) {
		return 0
	}
	return int(o.ValidUntil.Sub(now).Hours() / 24)
}

// Expired reports whether the offer has passed its validity window.
func (o Offer) Expired(now time.Time) bool {
	return !o.ValidUntil.After(now)
}

// Banner is display configuration for the hero carousel
type Banner struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle,omitempty"`
	GradientColors []string `json:"gradientColors"`
	CTAText        string   `json:"ctaText"`
	CTAAction      string   `json:"ctaAction"`
	Priority       int      `json:"priority"`
}

// QuickAction is a shortcut tile on the cash-store home screen
type QuickAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Route string `json:"route"`
}

// Coupon is a redeemable coupon code
type Coupon struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Brand       BrandRef  `json:"brand"`
	ValidUntil  time.Time `json:"validUntil"`
}

// ActivityStatus is the lifecycle state of a cashback entry. Transitions
// happen only on the backend; the client receives final values.
type ActivityStatus string

const (
	StatusPending   ActivityStatus = "pending"
	StatusConfirmed ActivityStatus = "confirmed"
	StatusAvailable ActivityStatus = "available"
	StatusExpired   ActivityStatus = "expired"
	StatusCancelled ActivityStatus = "cancelled"
)

// Color returns the display color for the status
func (s ActivityStatus) Color() string {
	switch s {
	case StatusPending:
		return "#F59E0B"
	case StatusConfirmed:
		return "#3B82F6"
	case StatusAvailable:
		return "#10B981"
	case StatusExpired:
		return "#9CA3AF"
	case StatusCancelled:
		return "#EF4444"
	default:
		return "#9CA3AF"
	}
}

// Icon returns the display icon name for the status
func (s ActivityStatus) Icon() string {
	switch s {
	case StatusPending:
		return "clock"
	case StatusConfirmed:
		return "check-circle"
	case StatusAvailable:
		return "wallet"
	case StatusExpired:
		return "x-circle"
	case StatusCancelled:
		return "slash"
	default:
		return "help-circle"
	}
}

// CashbackActivity is one entry in the user's cashback history
type CashbackActivity struct {
	ID             string         `json:"id"`
	Brand          BrandRef       `json:"brand"`
	PurchaseAmount float64        `json:"purchaseAmount"`
	CashbackAmount float64        `json:"cashbackAmount"`
	Status         ActivityStatus `json:"status"`
	Date           time.Time      `json:"date"`
}

// CashbackSummary is the user's cashback wallet totals
type CashbackSummary struct {
	TotalEarned    float64 `json:"totalEarned"`
	Pending        float64 `json:"pending"`
	Available      float64 `json:"available"`
	LifetimeOrders int     `json:"lifetimeOrders"`
}
