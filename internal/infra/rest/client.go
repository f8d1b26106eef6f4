// Package rest is the single path to the storefront API: it builds
// requests against the configured base URL, attaches the bearer token on
// demand and flattens every failure into one human-readable message.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// TokenSource yields the current access token, or "" when signed out.
type TokenSource interface {
	AccessToken() string
}

// Options shapes a single request. The zero value is an anonymous GET.
type Options struct {
	Method string
	Body   any
	Auth   bool
}

type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// NewClient builds a client for the API at baseURL. A trailing slash on
// baseURL is stripped; paths always start with "/". httpClient may be nil.
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("rest: base URL is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, tokens: tokens, http: httpClient}, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request and decodes the JSON response into out when out is
// non-nil. A 2xx response whose body is empty or not valid JSON leaves out
// untouched; some endpoints legitimately answer with nothing. Any other
// outcome is returned as an *APIError. There are no retries here; retry
// policy belongs to callers.
func (c *Client) Do(ctx context.Context, path string, opts Options, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("rest: encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if opts.Auth && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: err.Error(), cause: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &APIError{Status: res.StatusCode, Message: err.Error(), cause: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := extractMessage(raw)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: msg}
	}

	if out != nil && len(raw) > 0 {
		// Tolerant reader: an unparsable success body reads as no data.
		_ = json.Unmarshal(raw, out)
	}
	return nil
}

// Get issues an anonymous GET.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, path, Options{}, out)
}

// AuthGet issues a bearer-authenticated GET.
func (c *Client) AuthGet(ctx context.Context, path string, out any) error {
	return c.Do(ctx, path, Options{Auth: true}, out)
}

// Post issues an anonymous POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.Do(ctx, path, Options{Method: http.MethodPost, Body: payload}, out)
}

// AuthPost issues a bearer-authenticated POST with a JSON body.
func (c *Client) AuthPost(ctx context.Context, path string, payload, out any) error {
	return c.Do(ctx, path, Options{Method: http.MethodPost, Body: payload, Auth: true}, out)
}

// Query renders params as a query string. Values that are empty after
// trimming are omitted entirely; a non-empty result is prefixed with "?".
// Keys are emitted in sorted order.
func Query(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	encoded := values.Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}
