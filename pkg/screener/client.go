package screener

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultBaseURL is the scanner API host.
const DefaultBaseURL = "https://scanner.tradingview.com"

// DefaultTimeout bounds a scan request when no custom HTTP client is
// supplied.
const DefaultTimeout = 20 * time.Second

// globalEndpoint is the URL segment for multi-market, ticker and index
// queries.
const globalEndpoint = "global"

// defaultHeaders mimic a browser session on the hosted screener. Every
// header can be overridden with WithHeader.
func defaultHeaders() http.Header {
	h := make(http.Header)
	h.Set("Accept", "text/plain, */*; q=0.01")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Origin", "https://www.tradingview.com")
	h.Set("Referer", "https://www.tradingview.com/")
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	return h
}

// Client talks to the scanner API. The zero-configuration client from
// NewClient targets the public host with browser-like headers and a 20s
// timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	cache      *lru.Cache[string, *ScanResult]
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client. It replaces the default
// client and its timeout entirely.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout on the client's HTTP transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHeader sets a request header, replacing the default of the same
// name.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithUserAgent replaces the default user agent.
func WithUserAgent(ua string) Option {
	return WithHeader("User-Agent", ua)
}

// WithCache enables an LRU cache of scan results keyed by endpoint and
// compiled payload, holding up to maxEntries entries. Repeating an
// identical query returns the cached result without an HTTP round trip.
// Live data goes stale, so this is opt-in. maxEntries <= 0 disables the
// cache.
func WithCache(maxEntries int) Option {
	return func(c *Client) {
		if maxEntries <= 0 {
			c.cache = nil
			return
		}
		cache, err := lru.New[string, *ScanResult](maxEntries)
		if err != nil {
			return
		}
		c.cache = cache
	}
}

// NewClient creates a scanner API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		headers:    defaultHeaders(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is returned when the scanner API responds with a non-2xx
// status. Body carries the raw response text for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scanner API returned status %d: %s", e.StatusCode, e.Body)
}

// Scan compiles the query, POSTs it and reassembles the tabular
// response. Transport errors and non-2xx statuses surface unmodified; no
// retries are attempted.
func (c *Client) Scan(ctx context.Context, q *Query) (*ScanResult, error) {
	return c.scan(ctx, q.Endpoint(), q.Payload(), q.Columns())
}

// ScanRaw submits a pre-built payload to the given market endpoint
// ("global" or a market name). The payload's "columns" key determines row
// reconstruction and must be a string list.
func (c *Client) ScanRaw(ctx context.Context, market string, payload map[string]any) (*ScanResult, error) {
	columns, err := payloadColumns(payload)
	if err != nil {
		return nil, err
	}
	return c.scan(ctx, market, payload, columns)
}

func (c *Client) scan(ctx context.Context, market string, payload map[string]any, columns []string) (*ScanResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding scan payload: %w", err)
	}

	endpoint := c.baseURL + "/" + market + "/scan"

	cacheKey := endpoint + "\n" + string(body)
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating scan request: %w", err)
	}
	req.Header = c.headers.Clone()
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("scan request failed",
			slog.String("url", endpoint),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("executing scan request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading scan response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("scan request returned error",
			slog.String("url", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var sr scanResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("decoding scan response: %w", err)
	}

	result, err := buildResult(&sr, columns)
	if err != nil {
		return nil, err
	}

	slog.Debug("scan completed",
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Int("total_count", result.TotalCount),
		slog.Int("rows", len(result.Rows)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if c.cache != nil {
		c.cache.Add(cacheKey, result)
	}
	return result, nil
}

// payloadColumns extracts the "columns" list from a raw payload.
func payloadColumns(payload map[string]any) ([]string, error) {
	raw, ok := payload["columns"]
	if !ok {
		return nil, fmt.Errorf("scan payload has no columns key")
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		cols := make([]string, 0, len(v))
		for _, c := range v {
			s, ok := c.(string)
			if !ok {
				return nil, fmt.Errorf("scan payload column %v is not a string", c)
			}
			cols = append(cols, s)
		}
		return cols, nil
	}
	return nil, fmt.Errorf("scan payload columns must be a string list, got %T", raw)
}
