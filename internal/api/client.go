// Package api wraps the rewards backend REST surface. One narrow function
// per resource; every response travels in the standard
// {success, data, message, meta} envelope.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rezapp/marketplace-service/internal/httpx"
)

// MinSearchLength is the minimum query length before a search request is
// even attempted. Shorter queries resolve empty without touching the network.
const MinSearchLength = 2

// Pagination mirrors the backend's meta.pagination block
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Meta is the optional envelope metadata
type Meta struct {
	Pagination *Pagination `json:"pagination"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Meta    *Meta           `json:"meta"`
}

// Client calls the rewards backend REST API
type Client struct {
	http    *httpx.Client
	baseURL string
	logger  zerolog.Logger
}

// NewClient creates a backend API client. baseURL is the backend root,
// e.g. https://api.rezapp.in
func NewClient(http *httpx.Client, baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "api_client").Logger(),
	}
}

// getJSON fetches path, unwraps the envelope and decodes data into out.
// Returns envelope meta for paginated resources.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) (*Meta, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	body, err := c.http.GetBytes(ctx, u)
	if err != nil {
		return nil, err
	}
	return c.unwrap(path, body, out)
}

// postJSON posts payload to path and decodes the envelope data into out
// (out may be nil when the response body does not matter).
func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	respBody, err := c.http.PostBytes(ctx, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if out == nil {
		out = &json.RawMessage{}
	}
	_, err = c.unwrap(path, respBody, out)
	return err
}

func (c *Client) unwrap(path string, body []byte, out any) (*Meta, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", path, err)
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "backend rejected the request"
		}
		return nil, fmt.Errorf("%s: %s", path, msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("unexpected data shape from %s: %w", path, err)
		}
	}
	return env.Meta, nil
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
