package catalog

import (
	"strings"
	"time"

	"github.com/rezapp/marketplace-service/internal/api"
)

// newArrivalWindow is how long after creation a brand keeps its "new" flag.
// The flag is recomputed on every transform, so a brand can silently lose
// it between refreshes.
const newArrivalWindow = 30 * 24 * time.Hour

// defaultSuccessRate is assumed when the source record carries none.
const defaultSuccessRate = 95

// BrandFromStore reinterprets a generic marketplace store record as a
// rewards brand. Deterministic for a fixed record and now; the clock is
// injected, never read.
func BrandFromStore(rec api.StoreRecord, now time.Time) Brand {
	brand := Brand{
		ID:       rec.ID,
		Name:     rec.Name,
		Logo:     rec.Logo,
		Category: NormalizeCategory(rec.Category),
		Tier:     TierStandard,
		Cashback: Cashback{
			Percentage: storeCashbackPercent(rec),
		},
		Ratings:      ratingsFromWire(rec.Ratings),
		Badges:       []Badge{},
		IsFeatured:   rec.IsFeatured,
		IsNewArrival: now.Sub(rec.CreatedAt) < newArrivalWindow,
		IsLuxury:     rec.IsLuxury,
		IsActive:     rec.IsActive,
		// Store-sourced brands are always in-app; the external/in-app
		// split everything downstream relies on starts here.
		ExternalURL: "",
	}

	if rec.DeliveryCategories != nil && rec.DeliveryCategories.Premium {
		brand.Tier = TierPremium
	}
	if rec.RewardRules != nil {
		brand.Cashback.MaxAmount = rec.RewardRules.MaxCashbackAmount
		brand.Cashback.MinPurchase = rec.RewardRules.MinPurchase
		brand.Cashback.EarlyBirdBonus = rec.RewardRules.EarlyBirdBonus
	}

	// Each badge derives from a distinct flag, so duplicates cannot occur.
	if rec.IsFeatured {
		brand.Badges = append(brand.Badges, BadgeExclusive)
	}
	if rec.IsVerified {
		brand.Badges = append(brand.Badges, BadgeVerified)
	}

	return brand
}

// storeCashbackPercent resolves the cashback percentage across the two
// backend schema generations: rewardRules first, legacy offers second,
// zero when neither is present.
func storeCashbackPercent(rec api.StoreRecord) float64 {
	if rec.RewardRules != nil && rec.RewardRules.BaseCashbackPercent != nil {
		return *rec.RewardRules.BaseCashbackPercent
	}
	if rec.Offers != nil {
		return rec.Offers.Cashback
	}
	return 0
}

// BrandFromAffiliate maps a cash-store brand record to the unified shape.
func BrandFromAffiliate(rec api.AffiliateBrandRecord, now time.Time) Brand {
	badges := make([]Badge, 0, len(rec.Badges))
	for _, b := range rec.Badges {
		badges = append(badges, Badge(b))
	}

	tier := TierStandard
	for _, b := range badges {
		if b == BadgePremium {
			tier = TierPremium
		}
	}

	return Brand{
		ID:       rec.ID,
		Name:     rec.Name,
		Logo:     rec.Logo,
		Category: NormalizeCategory(rec.Category),
		Cashback: Cashback{
			Percentage:     rec.Cashback.Percentage,
			MaxAmount:      rec.Cashback.MaxAmount,
			MinPurchase:    rec.Cashback.MinPurchase,
			EarlyBirdBonus: rec.Cashback.EarlyBirdBonus,
		},
		Ratings:      ratingsFromWire(rec.Ratings),
		Badges:       badges,
		Tier:         tier,
		IsFeatured:   rec.IsFeatured,
		IsNewArrival: now.Sub(rec.CreatedAt) < newArrivalWindow,
		IsLuxury:     rec.IsLuxury,
		IsActive:     rec.IsActive,
		ExternalURL:  rec.ExternalURL,
	}
}

func ratingsFromWire(r *api.WireRatings) Ratings {
	if r == nil {
		return Ratings{SuccessRate: defaultSuccessRate}
	}
	ratings := Ratings{
		Average:     r.Average,
		Count:       r.Count,
		SuccessRate: defaultSuccessRate,
	}
	if r.SuccessRate != nil {
		ratings.SuccessRate = *r.SuccessRate
	}
	return ratings
}

// NormalizeCategory collapses the backend's three category shapes into one
// consistent link, or nil when no category is attached. Exhaustive over the
// union, no duck typing.
func NormalizeCategory(ref api.CategoryRef) *CategoryLink {
	switch ref.Kind {
	case api.CategoryRefAbsent:
		return nil
	case api.CategoryRefID:
		return &CategoryLink{ID: ref.ID}
	case api.CategoryRefObject:
		link := &CategoryLink{
			ID:   ref.Object.ID,
			Name: ref.Object.Name,
			Slug: ref.Object.Slug,
		}
		if link.Slug == "" && link.Name != "" {
			link.Slug = Slugify(link.Name)
		}
		return link
	default:
		return nil
	}
}

// Slugify lowercases a display name into a URL slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}

// CategoryFromRecord maps the category resource to its view model
func CategoryFromRecord(rec api.CategoryRecord) Category {
	return Category{
		ID:          rec.ID,
		Name:        rec.Name,
		Slug:        rec.Slug,
		Icon:        rec.Icon,
		Color:       rec.Color,
		MaxCashback: rec.MaxCashback,
		BrandCount:  rec.BrandCount,
	}
}

// CollectionFromRecord maps the collection resource to its view model
func CollectionFromRecord(rec api.CollectionRecord) Collection {
	return Collection{
		ID:         rec.ID,
		Name:       rec.Name,
		Slug:       rec.Slug,
		Image:      rec.Image,
		Type:       CollectionType(rec.Type),
		BrandCount: rec.BrandCount,
	}
}

// OfferFromRecord maps an offer/deal record to its view model
func OfferFromRecord(rec api.OfferRecord) Offer {
	rate := rec.CashbackRate
	if rate == 0 && rec.ValueType == "percent" {
		rate = rec.Value
	}
	return Offer{
		ID:           rec.ID,
		Title:        rec.Title,
		Brand:        BrandRef(rec.Brand),
		CashbackRate: rate,
		Value:        rec.Value,
		ValueType:    rec.ValueType,
		ValidUntil:   rec.ValidUntil,
		Badge:        rec.Badge,
		BonusCoins:   rec.BonusCoins,
	}
}

// BannerFromRecord maps a banner record to its view model
func BannerFromRecord(rec api.BannerRecord) Banner {
	return Banner{
		ID:             rec.ID,
		Title:          rec.Title,
		Subtitle:       rec.Subtitle,
		GradientColors: rec.GradientColors,
		CTAText:        rec.CTAText,
		CTAAction:      rec.CTAAction,
		Priority:       rec.Priority,
	}
}

// CouponFromRecord maps a coupon record to its view model
func CouponFromRecord(rec api.CouponRecord) Coupon {
	return Coupon{
		ID:          rec.ID,
		Code:        rec.Code,
		Title:       rec.Title,
		Description: rec.Description,
		Brand:       BrandRef(rec.Brand),
		ValidUntil:  rec.ValidUntil,
	}
}

// ActivityFromRecord maps a cashback history record to its view model
func ActivityFromRecord(rec api.ActivityRecord) CashbackActivity {
	return CashbackActivity{
		ID:             rec.ID,
		Brand:          BrandRef(rec.Brand),
		PurchaseAmount: rec.PurchaseAmount,
		CashbackAmount: rec.CashbackAmount,
		Status:         ActivityStatus(rec.Status),
		Date:           rec.Date,
	}
}

// SummaryFromRecord maps the wallet summary record to its view model
func SummaryFromRecord(rec api.SummaryRecord) CashbackSummary {
	return CashbackSummary(rec)
}
