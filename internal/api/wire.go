package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire shapes as the rewards backend sends them. Two schema generations
// coexist upstream (rewardRules vs offers.cashback), so optional sub-records
// are pointers and the transform layer owns the fallback chain.

// StoreRecord is the generic marketplace store resource. Store-sourced
// brands are always in-app: the backend never sets an external URL here.
type StoreRecord struct {
	ID                 string              `json:"_id"`
	Name               string              `json:"name"`
	Logo               string              `json:"logo"`
	Category           CategoryRef         `json:"category"`
	IsFeatured         bool                `json:"isFeatured"`
	IsVerified         bool                `json:"isVerified"`
	IsActive           bool                `json:"isActive"`
	IsLuxury           bool                `json:"isLuxury"`
	DeliveryCategories *DeliveryCategories `json:"deliveryCategories"`
	RewardRules        *RewardRules        `json:"rewardRules"`
	Offers             *StoreOffers        `json:"offers"`
	Ratings            *WireRatings        `json:"ratings"`
	CreatedAt          time.Time           `json:"createdAt"`
}

// DeliveryCategories carries store service-tier flags
type DeliveryCategories struct {
	Premium bool `json:"premium"`
}

// RewardRules is the newer cashback schema
type RewardRules struct {
	BaseCashbackPercent *float64 `json:"baseCashbackPercent"`
	MaxCashbackAmount   float64  `json:"maxCashbackAmount"`
	MinPurchase         float64  `json:"minPurchase"`
	EarlyBirdBonus      float64  `json:"earlyBirdBonus"`
}

// StoreOffers is the legacy cashback schema
type StoreOffers struct {
	Cashback float64 `json:"cashback"`
}

// WireRatings carries raw rating aggregates; SuccessRate is frequently absent
type WireRatings struct {
	Average     float64  `json:"average"`
	Count       int      `json:"count"`
	SuccessRate *float64 `json:"successRate"`
}

// AffiliateBrandRecord is the cash-store / mall-brand resource. ExternalURL
// may be set here; its presence marks the brand as an affiliate link-out.
type AffiliateBrandRecord struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Logo        string       `json:"logo"`
	Category    CategoryRef  `json:"category"`
	Cashback    WireCashback `json:"cashback"`
	Ratings     *WireRatings `json:"ratings"`
	Badges      []string     `json:"badges"`
	IsFeatured  bool         `json:"isFeatured"`
	IsLuxury    bool         `json:"isLuxury"`
	IsActive    bool         `json:"isActive"`
	ExternalURL string       `json:"externalUrl"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// WireCashback is the cashback sub-record on affiliate brands
type WireCashback struct {
	Percentage     float64 `json:"percentage"`
	MaxAmount      float64 `json:"maxAmount"`
	MinPurchase    float64 `json:"minPurchase"`
	EarlyBirdBonus float64 `json:"earlyBirdBonus"`
}

// CategoryRecord is the category resource
type CategoryRecord struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	MaxCashback float64 `json:"maxCashback"`
	BrandCount  int     `json:"brandCount"`
}

// CollectionRecord is a curated brand collection
type CollectionRecord struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Image      string `json:"image"`
	Type       string `json:"type"`
	BrandCount int    `json:"brandCount"`
}

// OfferRecord covers mall offers, trending deals and high-cashback deals;
// the three sections share one upstream shape.
type OfferRecord struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Brand        BrandRef  `json:"brand"`
	CashbackRate float64   `json:"cashbackRate"`
	Value        float64   `json:"value"`
	ValueType    string    `json:"valueType"`
	ValidUntil   time.Time `json:"validUntil"`
	Badge        string    `json:"badge"`
	BonusCoins   int       `json:"bonusCoins"`
}

// BrandRef is the reduced brand reference embedded in offers and activity
type BrandRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// BannerRecord is pure display configuration
type BannerRecord struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle"`
	GradientColors []string `json:"gradientColors"`
	CTAText        string   `json:"ctaText"`
	CTAAction      string   `json:"ctaAction"`
	Priority       int      `json:"priority"`
}

// CouponRecord is a coupon listing entry
type CouponRecord struct {
	ID          string    `json:"_id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Brand       BrandRef  `json:"brand"`
	ValidUntil  time.Time `json:"validUntil"`
}

// ActivityRecord is one cashback history entry. Status arrives already
// final; transitions happen only on the backend.
type ActivityRecord struct {
	ID             string    `json:"_id"`
	Brand          BrandRef  `json:"brand"`
	PurchaseAmount float64   `json:"purchaseAmount"`
	CashbackAmount float64   `json:"cashbackAmount"`
	Status         string    `json:"status"`
	Date           time.Time `json:"date"`
}

// SummaryRecord is the cashback wallet summary
type SummaryRecord struct {
	TotalEarned    float64 `json:"totalEarned"`
	Pending        float64 `json:"pending"`
	Available      float64 `json:"available"`
	LifetimeOrders int     `json:"lifetimeOrders"`
}

// CategoryRefKind discriminates the three shapes the backend uses for a
// brand's category field.
type CategoryRefKind int

const (
	// CategoryRefAbsent means the field was missing or null
	CategoryRefAbsent CategoryRefKind = iota

	// CategoryRefID means the field was a bare category id string
	CategoryRefID

	// CategoryRefObject means the field was an embedded category record
	CategoryRefObject
)

// CategoryRef is a tagged union over the backend's three category shapes:
// a bare id string, an embedded object, or absent.
type CategoryRef struct {
	Kind   CategoryRefKind
	ID     string
	Object *CategoryRecord
}

// UnmarshalJSON decodes the duck-typed upstream category field into the union.
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = CategoryRef{Kind: CategoryRefAbsent}
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("category ref string: %w", err)
		}
		if id == "" {
			*r = CategoryRef{Kind: CategoryRefAbsent}
			return nil
		}
		*r = CategoryRef{Kind: CategoryRefID, ID: id}
		return nil
	case '{':
		var rec CategoryRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("category ref object: %w", err)
		}
		*r = CategoryRef{Kind: CategoryRefObject, Object: &rec}
		return nil
	default:
		return fmt.Errorf("category ref: unsupported JSON shape %q", string(data))
	}
}

// MarshalJSON re-encodes the union in its original upstream shape.
func (r CategoryRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case CategoryRefID:
		return json.Marshal(r.ID)
	case CategoryRefObject:
		return json.Marshal(r.Object)
	default:
		return []byte("null"), nil
	}
}
