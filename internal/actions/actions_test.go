package actions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezapp/marketplace-service/internal/api"
	"github.com/rezapp/marketplace-service/internal/catalog"
	"github.com/rezapp/marketplace-service/internal/httpx"
	"github.com/rezapp/marketplace-service/internal/httpx/ratelimit"
)

type staticTokens struct{}

func (staticTokens) Token() (string, error) { return "t", nil }
func (staticTokens) Clear() error           { return nil }

type memSpool struct {
	events []api.ClickEvent
	kinds  []string
	fail   bool
}

func (s *memSpool) Enqueue(ctx context.Context, kind string, event api.ClickEvent) error {
	if s.fail {
		return errors.New("spool unavailable")
	}
	s.kinds = append(s.kinds, kind)
	s.events = append(s.events, event)
	return nil
}

func trackerFor(t *testing.T, srv *httptest.Server, spool Spool) *Tracker {
	t.Helper()
	cfg := ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 1000, MaxRetries: 0, InitialBackoffMs: 1, MaxBackoffMs: 1}
	hc := httpx.NewClient(cfg, staticTokens{}, zerolog.Nop())
	return NewTracker(api.NewClient(hc, srv.URL, zerolog.Nop()), spool, zerolog.Nop())
}

func TestBrandClickDelivered(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/mall/brands/click", r.URL.Path)
		hits.Add(1)
		w.Write([]byte(`{"success":true,"data":null}`))
	}))
	defer srv.Close()

	spool := &memSpool{}
	trackerFor(t, srv, spool).BrandClick(context.Background(), "nykaa", "home")
	assert.Equal(t, int32(1), hits.Load())
	assert.Empty(t, spool.events, "delivered events must not be spooled")
}

func TestFailedClickGoesToSpool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	spool := &memSpool{}
	trackerFor(t, srv, spool).AffiliateClick(context.Background(), "amazon", "cash-store")

	require.Len(t, spool.events, 1)
	assert.Equal(t, "affiliate", spool.kinds[0])
	assert.Equal(t, "amazon", spool.events[0].BrandID)
	assert.Equal(t, "cash-store", spool.events[0].Source)
}

func TestFailedClickWithoutSpoolIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// must not panic or propagate
	trackerFor(t, srv, nil).BrandClick(context.Background(), "croma", "search")
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) SetString(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestCopyCouponCode(t *testing.T) {
	cb := &fakeClipboard{}
	ok := CopyCouponCode(cb, catalog.Coupon{ID: "c1", Code: "SAVE20"}, zerolog.Nop())
	assert.True(t, ok)
	assert.Equal(t, "SAVE20", cb.text)
}

func TestCopyCouponCodeFailures(t *testing.T) {
	assert.False(t, CopyCouponCode(&fakeClipboard{}, catalog.Coupon{ID: "c2"}, zerolog.Nop()), "empty code")

	cb := &fakeClipboard{err: errors.New("denied")}
	assert.False(t, CopyCouponCode(cb, catalog.Coupon{ID: "c3", Code: "X"}, zerolog.Nop()))
}

func TestResolveBrandNavigation(t *testing.T) {
	ext := ResolveBrandNavigation(catalog.Brand{ID: "amazon", ExternalURL: "https://amazon.in"})
	assert.True(t, ext.External)
	assert.Equal(t, "https://amazon.in", ext.URL)
	assert.Empty(t, ext.Route)

	in := ResolveBrandNavigation(catalog.Brand{ID: "nykaa"})
	assert.False(t, in.External)
	assert.Equal(t, "/mall/brands/nykaa", in.Route)
}
