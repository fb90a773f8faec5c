// Package actions holds the write-side operations: click tracking, coupon
// copying and brand navigation. Reads never depend on anything here.
package actions

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/rezapp/marketplace-service/internal/api"
	"github.com/rezapp/marketplace-service/internal/catalog"
)

var clickOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "click_track_outcomes_total",
	Help: "Click tracking attempts by kind and outcome.",
}, []string{"kind", "outcome"})

// Spool accepts click events that failed to deliver, for later retry.
type Spool interface {
	Enqueue(ctx context.Context, kind string, event api.ClickEvent) error
}

// Tracker delivers click events to the backend. Tracking is best-effort:
// failures never surface to the user flow that triggered them. When a spool
// is configured, failed events are parked there for the sweeper to retry.
type Tracker struct {
	api    *api.Client
	spool  Spool
	logger zerolog.Logger
}

// NewTracker creates a click tracker. spool may be nil, in which case failed
// events are only logged.
func NewTracker(client *api.Client, spool Spool, logger zerolog.Logger) *Tracker {
	return &Tracker{
		api:    client,
		spool:  spool,
		logger: logger.With().Str("component", "actions").Logger(),
	}
}

// BrandClick records a tap on a mall brand. Never returns an error.
func (t *Tracker) BrandClick(ctx context.Context, brandID, source string) {
	t.track(ctx, "brand", api.ClickEvent{BrandID: brandID, Source: source}, t.api.TrackBrandClick)
}

// AffiliateClick records a link-out to an affiliate brand. Never returns an
// error.
func (t *Tracker) AffiliateClick(ctx context.Context, brandID, source string) {
	t.track(ctx, "affiliate", api.ClickEvent{BrandID: brandID, Source: source}, t.api.TrackAffiliateClick)
}

func (t *Tracker) track(ctx context.Context, kind string, event api.ClickEvent, send func(context.Context, api.ClickEvent) error) {
	if err := send(ctx, event); err != nil {
		t.logger.Warn().Err(err).Str("kind", kind).Str("brand_id", event.BrandID).Msg("Click tracking failed")
		if t.spool == nil {
			clickOutcomes.WithLabelValues(kind, "dropped").Inc()
			return
		}
		if sperr := t.spool.Enqueue(ctx, kind, event); sperr != nil {
			t.logger.Error().Err(sperr).Str("kind", kind).Msg("Could not spool click event")
			clickOutcomes.WithLabelValues(kind, "dropped").Inc()
			return
		}
		clickOutcomes.WithLabelValues(kind, "spooled").Inc()
		return
	}
	clickOutcomes.WithLabelValues(kind, "delivered").Inc()
}

// Clipboard abstracts the host clipboard so tests and headless callers can
// substitute their own.
type Clipboard interface {
	SetString(text string) error
}

// CopyCouponCode places a coupon code on the clipboard and reports whether
// it succeeded, so callers can show the right toast.
func CopyCouponCode(cb Clipboard, coupon catalog.Coupon, logger zerolog.Logger) bool {
	if coupon.Code == "" {
		return false
	}
	if err := cb.SetString(coupon.Code); err != nil {
		logger.Warn().Err(err).Str("coupon_id", coupon.ID).Msg("Clipboard write failed")
		return false
	}
	return true
}

// Navigation is the resolved destination for a brand tap.
type Navigation struct {
	External bool
	URL      string
	Route    string
}

// ResolveBrandNavigation decides where a brand tap goes. Brands carrying an
// external URL open out-of-app; everything else routes to the in-app detail
// screen.
func ResolveBrandNavigation(b catalog.Brand) Navigation {
	if b.IsAffiliate() {
		return Navigation{External: true, URL: b.ExternalURL}
	}
	return Navigation{Route: "/mall/brands/" + b.ID}
}
