// Package yahoo fetches daily closing prices from the Yahoo Finance chart
// API.
//
// It backs symbols the exchange reports do not carry, like foreign indices,
// and doubles as a fallback when TWSE is unreachable. Bare Taiwan stock
// numbers are qualified with the .TW listing suffix.
package yahoo

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/time/rate"

	"github.com/tzuchia/backtest"
	"github.com/tzuchia/backtest/date"
)

// DefaultBaseURL is the public chart API root.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// yahoo rejects requests without a browser-like User-Agent.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// userAgentTransport stamps every request with a browser User-Agent before
// it reaches the cache.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(req)
}

// Client queries the Yahoo Finance v8 chart API. No API key is required.
//
// The zero value is not usable, use NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL points the client at another endpoint root, used in tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient replaces the default daily-caching HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

// WithRateLimit overrides the request rate, in requests per second.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Yahoo Finance client.
func NewClient(opts ...ClientOption) *Client {
	httpClient := backtest.CachedClient()
	httpClient.Transport = &userAgentTransport{httpClient.Transport}
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(2, 2),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DailyClose returns the daily closing prices for symbol between r.From and
// r.To, in one chart request.
//
// Days where the chart reports a null close (halts, partial sessions) are
// omitted.
func (c *Client) DailyClose(ctx context.Context, symbol backtest.Symbol, r date.Range) ([]backtest.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	// https://query1.finance.yahoo.com/v8/finance/chart/2330.TW?period1=...&period2=...&interval=1d
	// {
	//   "chart": {
	//     "result": [{
	//       "meta": {"currency": "TWD", "symbol": "2330.TW", ...},
	//       "timestamp": [1704173400, 1704259800, ...],
	//       "indicators": {"quote": [{"open": [...], "close": [593.0, null, ...], ...}]}
	//     }],
	//     "error": null
	//   }
	// }
	params := url.Values{}
	params.Set("period1", fmt.Sprint(unixOf(r.From)))
	params.Set("period2", fmt.Sprint(unixOf(r.To.Add(1))))
	params.Set("interval", "1d")
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(qualify(symbol)), params.Encode())

	var jobj any
	if err := backtest.JSONGet(ctx, c.httpClient, addr, &jobj); err != nil {
		return nil, fmt.Errorf("fetching chart for %s: %w", symbol, err)
	}

	// The API reports symbol-level failures in-band.
	if jval, err := jsonpath.Get("$.chart.error.description", jobj); err == nil {
		if desc, ok := jval.(string); ok && desc != "" {
			return nil, fmt.Errorf("chart error for %s: %s", symbol, desc)
		}
	}

	path := "$.chart.result[0].timestamp"
	jts, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("no timestamps for %s: %q %w", symbol, path, err)
	}
	path = "$.chart.result[0].indicators.quote[0].close"
	jcloses, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("no closes for %s: %q %w", symbol, path, err)
	}
	timestamps, ok := jts.([]any)
	if !ok {
		return nil, fmt.Errorf("timestamps for %s are not a list", symbol)
	}
	closes, ok := jcloses.([]any)
	if !ok || len(closes) != len(timestamps) {
		return nil, fmt.Errorf("closes for %s do not line up with timestamps", symbol)
	}

	var quotes []backtest.Quote
	for i, jt := range timestamps {
		ts, ok := jt.(float64)
		if !ok {
			return nil, fmt.Errorf("timestamp %v for %s is not a number", jt, symbol)
		}
		price, ok := closes[i].(float64)
		if !ok {
			continue // null close
		}
		day := date.New(time.Unix(int64(ts), 0).UTC().Date())
		if !r.Contains(day) {
			continue
		}
		quotes = append(quotes, backtest.Quote{Symbol: symbol, Day: day, Close: price})
	}
	if len(quotes) == 0 {
		c.logger.Printf("yahoo: no sessions for %s between %s and %s", symbol, r.From, r.To)
	}
	return quotes, nil
}

// qualify maps a bare Taiwan stock number to Yahoo's listing symbol by
// appending the .TW suffix. Index symbols and symbols already carrying a
// market suffix pass through.
func qualify(symbol backtest.Symbol) string {
	s := string(symbol)
	if symbol.IsIndex() || strings.Contains(s, ".") {
		return s
	}
	return s + ".TW"
}

// unixOf returns the unix time of midnight UTC starting that day.
func unixOf(d date.Date) int64 {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

var _ backtest.Source = (*Client)(nil)
