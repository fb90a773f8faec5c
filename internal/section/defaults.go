package section

import "github.com/rezapp/marketplace-service/internal/catalog"

// Static fallback content. These render immediately on first open and keep
// the screens populated when the backend returns empty sections.

// DefaultMallBanners is the hero carousel shown until real banners arrive.
func DefaultMallBanners() []catalog.Banner {
	return []catalog.Banner{
		{
			ID:             "default-mega-sale",
			Title:          "Mega Brand Sale",
			Subtitle:       "Up to 25% cashback at 500+ stores",
			GradientColors: []string{"#7C3AED", "#4F46E5"},
			CTAText:        "Shop Now",
			CTAAction:      "/mall/collections/mega-sale",
			Priority:       1,
		},
		{
			ID:             "default-new-arrivals",
			Title:          "Fresh This Month",
			Subtitle:       "New brands, extra rewards",
			GradientColors: []string{"#059669", "#10B981"},
			CTAText:        "Explore",
			CTAAction:      "/mall/collections/new-arrivals",
			Priority:       2,
		},
	}
}

// DefaultQuickActions is the fixed action grid on the cash store screen.
func DefaultQuickActions() []catalog.QuickAction {
	return []catalog.QuickAction{
		{ID: "recharge", Label: "Recharge", Icon: "phone-portrait", Route: "/recharge"},
		{ID: "bills", Label: "Pay Bills", Icon: "receipt", Route: "/bills"},
		{ID: "gift-cards", Label: "Gift Cards", Icon: "gift", Route: "/gift-cards"},
		{ID: "travel", Label: "Travel", Icon: "airplane", Route: "/travel"},
	}
}

// DefaultTravelDeals backs the travel strip when the backend has no current
// travel offers.
func DefaultTravelDeals() []catalog.Offer {
	return []catalog.Offer{
		{
			ID:           "default-travel-flights",
			Title:        "Flat 8% back on flights",
			Brand:        catalog.BrandRef{ID: "skyfare", Name: "SkyFare"},
			CashbackRate: 8,
			Badge:        "travel",
		},
		{
			ID:           "default-travel-hotels",
			Title:        "Up to 12% back on hotels",
			Brand:        catalog.BrandRef{ID: "stayhub", Name: "StayHub"},
			CashbackRate: 12,
			Badge:        "travel",
		},
	}
}

func seedMallSnapshot() *Snapshot {
	return &Snapshot{
		Banners: DefaultMallBanners(),
	}
}

func seedCashStoreSnapshot() *Snapshot {
	return &Snapshot{
		QuickActions:  DefaultQuickActions(),
		TrendingDeals: DefaultTravelDeals(),
	}
}
