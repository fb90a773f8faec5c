package httpx

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

	"github.com/rezapp/marketplace-service/internal/httpx/ratelimit"
)

func fastConfig() ratelimit.Config {
	return ratelimit.Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		MaxRetries:        2,
		InitialBackoffMs:  1,
		MaxBackoffMs:      5,
	}
}

type fakeTokens struct {
	token   string
	cleared atomic.Bool
}

func (f *fakeTokens) Token() (string, error) { return f.token, nil }
func (f *fakeTokens) Clear() error           { f.cleared.Store(true); return nil }

func TestRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(fastConfig(), nil, zerolog.Nop())
	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int32(3), calls.Load(), "should retry twice before succeeding")
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(fastConfig(), nil, zerolog.Nop())
	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var retryErr *ratelimit.FetchRetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, http.StatusNotFound, retryErr.LastStatus)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	client := NewClient(fastConfig(), tokens, zerolog.Nop())

	_, err := client.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, tokens.cleared.Load(), "401 must clear stored credentials")
}

func TestBearerTokenAttached(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(fastConfig(), &fakeTokens{token: "tok-1"}, zerolog.Nop())
	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok-1", auth.Load())
}

func TestContextCancellationStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(fastConfig(), nil, zerolog.Nop())
	_, err := client.Get(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", &CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: 30_000_000_000, HalfOpenMaxCalls: 1}, nil)

	assert.True(t, cb.Allow())
	cb.RecordFailure(errors.New("boom"))
	assert.True(t, cb.Allow())
	cb.RecordFailure(errors.New("boom"))

	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow(), "open breaker must reject")

	cb.Reset()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.True(t, cb.Allow())
}
