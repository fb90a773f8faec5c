// Package httpx is the shared HTTP client for the rewards backend. It owns
// throttling, retries with backoff, circuit breaking, bearer-token injection
// and the 401 credential-clearing side effect. Every upstream call in the
// service goes through this client.
package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rezapp/marketplace-service/internal/httpx/ratelimit"
)

const userAgent = "ReZ-MarketplaceService/1.0"

// ErrUnauthorized is returned when the backend answers 401. The stored
// credentials have already been cleared by the time the caller sees it.
var ErrUnauthorized = errors.New("unauthorized: stored credentials cleared")

// ErrCircuitOpen is returned when the circuit breaker rejects a request.
var ErrCircuitOpen = errors.New("upstream circuit breaker is open")

// TokenSource supplies the bearer token attached to every request and is
// told to clear credentials on an auth failure.
type TokenSource interface {
	Token() (string, error)
	Clear() error
}

// Client is an HTTP client with throttling, retry and circuit breaking
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *CircuitBreaker
	config     ratelimit.Config
	tokens     TokenSource
	logger     zerolog.Logger
}

// NewClient creates a new upstream HTTP client. tokens may be nil for
// unauthenticated use (tests, public endpoints).
func NewClient(config ratelimit.Config, tokens TokenSource, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.BurstSize),
		breaker: NewCircuitBreaker("rewards_backend", nil, &logger),
		config:  config,
		tokens:  tokens,
		logger:  logger,
	}
}

// NewClientDefault creates an upstream client with default retry/throttle settings
func NewClientDefault(tokens TokenSource, logger zerolog.Logger) *Client {
	return NewClient(ratelimit.DefaultConfig(), tokens, logger)
}

// Get performs a GET request with throttling and retry logic
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// GetBytes performs a GET request and returns the response body as bytes
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// PostBytes performs a POST request with a JSON body and returns the response body
func (c *Client) PostBytes(ctx context.Context, url string, body []byte) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// Do performs an HTTP request with throttling and retry logic. The body is
// passed as bytes so retries can replay it.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if !c.breaker.Allow() {
			return nil, ErrCircuitOpen
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		resp, err := c.doOnce(ctx, method, url, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			recordRequest(method, 0)
			if attempt < c.config.MaxRetries {
				if err := sleepCtx(ctx, ratelimit.CalculateBackoff(attempt, c.config)); err != nil {
					return nil, err
				}
				continue
			}
			c.breaker.RecordFailure(err)
			return nil, &ratelimit.FetchRetryError{
				URL:        url,
				Attempts:   attempt + 1,
				LastStatus: lastStatus,
				LastError:  lastErr,
			}
		}

		lastStatus = resp.StatusCode
		recordRequest(method, resp.StatusCode)

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.breaker.RecordSuccess()
			return resp, nil
		}

		// Auth failure clears stored credentials. Deliberately no retry and
		// no re-login redirect at this layer.
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			if c.tokens != nil {
				if clearErr := c.tokens.Clear(); clearErr != nil {
					c.logger.Error().Err(clearErr).Msg("Failed to clear credentials after 401")
				} else {
					c.logger.Warn().Str("url", url).Msg("Cleared stored credentials after 401")
				}
			}
			return nil, ErrUnauthorized
		}

		if !ratelimit.IsRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &ratelimit.FetchRetryError{
				URL:        url,
				Attempts:   attempt + 1,
				LastStatus: resp.StatusCode,
			}
		}

		if attempt == c.config.MaxRetries {
			resp.Body.Close()
			c.breaker.RecordFailure(fmt.Errorf("HTTP %d from %s", resp.StatusCode, url))
			return nil, &ratelimit.FetchRetryError{
				URL:        url,
				Attempts:   attempt + 1,
				LastStatus: resp.StatusCode,
			}
		}

		var backoff time.Duration
		if resp.StatusCode == http.StatusTooManyRequests {
			backoff = ratelimit.CalculateRateLimitBackoff(attempt, c.config, resp.Header.Get("Retry-After"))
		} else {
			backoff = ratelimit.CalculateBackoff(attempt, c.config)
		}

		resp.Body.Close()
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, err
		}
	}

	// Should not reach here, but needed for return
	return nil, &ratelimit.FetchRetryError{
		URL:        url,
		Attempts:   c.config.MaxRetries + 1,
		LastStatus: lastStatus,
		LastError:  lastErr,
	}
}

func (c *Client) doOnce(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to read stored token, sending unauthenticated request")
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	return c.httpClient.Do(req)
}

// GetConfig returns the current retry/throttle config
func (c *Client) GetConfig() ratelimit.Config {
	return c.config
}

// BreakerState returns the circuit breaker state for health reporting
func (c *Client) BreakerState() CircuitBreakerState {
	return c.breaker.State()
}

// SetTimeout overrides the underlying HTTP timeout
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func statusClass(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
