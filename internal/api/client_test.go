package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezapp/marketplace-service/internal/httpx"
	"github.com/rezapp/marketplace-service/internal/httpx/ratelimit"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 1000, MaxRetries: 0, InitialBackoffMs: 1, MaxBackoffMs: 1}
	hc := httpx.NewClient(cfg, nil, zerolog.Nop())
	return NewClient(hc, srv.URL, zerolog.Nop()), srv
}

func writeEnvelope(w http.ResponseWriter, data any, meta *Meta) {
	payload := map[string]any{"success": true, "data": data}
	if meta != nil {
		payload["meta"] = meta
	}
	json.NewEncoder(w).Encode(payload)
}

func TestMallBrandsUnwrapsEnvelope(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mall/brands", r.URL.Path)
		assert.Equal(t, "electronics", r.URL.Query().Get("category"))
		writeEnvelope(w, []map[string]any{
			{"_id": "s1", "name": "Chroma", "isFeatured": true},
			{"_id": "s2", "name": "Zepto"},
		}, &Meta{Pagination: &Pagination{Page: 1, Limit: 20, Total: 42, Pages: 3}})
	}))

	page, err := client.MallBrands(context.Background(), BrandQuery{Category: "electronics"})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, "Chroma", page.Items[0].Name)
	assert.True(t, page.Items[0].IsFeatured)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 3, page.Pages)
}

func TestEnvelopeFailureSurfacesMessage(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "maintenance window"})
	}))

	_, err := client.MallCategories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maintenance window")
}

func TestEnvelopeFailureWithoutMessage(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))

	_, err := client.MallOffers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend rejected the request")
}

func TestSearchMinimumLengthSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(w, []map[string]any{}, nil)
	}))

	for _, q := range []string{"", "a", " a ", " "} {
		results, err := client.SearchBrands(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Equal(t, int32(0), calls.Load(), "short queries must not hit the network")

	_, err := client.SearchBrands(context.Background(), "ni")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTrackAffiliateClickPostsPayload(t *testing.T) {
	var got ClickEvent
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/cash-store/click", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeEnvelope(w, nil, nil)
	}))

	err := client.TrackAffiliateClick(context.Background(), ClickEvent{BrandID: "b7", Source: "cash_store"})
	require.NoError(t, err)
	assert.Equal(t, "b7", got.BrandID)
}

func TestCategoryRefUnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind CategoryRefKind
	}{
		{"bare id", `"64ffab"`, CategoryRefID},
		{"object", `{"_id":"64ffab","name":"Fashion","slug":"fashion"}`, CategoryRefObject},
		{"null", `null`, CategoryRefAbsent},
		{"empty string", `""`, CategoryRefAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref CategoryRef
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ref))
			assert.Equal(t, tt.kind, ref.Kind)
		})
	}

	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"64ffab","name":"Fashion"}`), &ref))
	require.NotNil(t, ref.Object)
	assert.Equal(t, "Fashion", ref.Object.Name)
}

func TestCategoryRefRejectsUnsupportedShape(t *testing.T) {
	var ref CategoryRef
	err := json.Unmarshal([]byte(`42`), &ref)
	assert.Error(t, err)
}
