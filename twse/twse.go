// Package twse fetches daily closing prices from the Taiwan Stock Exchange
// open report endpoints.
//
// The exchange serves one calendar month per request, so date ranges are
// fetched month by month. Report rows use the ROC calendar (year 113 is
// 2024) and decorate prices with thousand separators, both are normalized
// here.
package twse

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tzuchia/backtest"
	"github.com/tzuchia/backtest/date"
)

// DefaultBaseURL is the public TWSE endpoint root.
const DefaultBaseURL = "https://www.twse.com.tw"

// Column indexes into report rows.
//
// STOCK_DAY rows: date, shares traded, value traded, open, high, low, close,
// change, transactions.
// FMTQIK rows: date, shares traded, value traded, transactions, TAIEX close,
// change.
const (
	stockCloseColumn = 6
	indexCloseColumn = 4
)

// Client queries the TWSE exchange reports. No API key is required.
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

// NewClient creates a TWSE client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: backtest.CachedClient(),
		// The exchange blocks clients that poll faster than about three
		// requests every five seconds.
		limiter: rate.NewLimiter(rate.Every(5*time.Second/3), 1),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DailyClose returns the daily closing prices for symbol between r.From and
// r.To, one request per calendar month.
//
// Stocks are read from the STOCK_DAY report. Index symbols (leading '^') are
// read from the FMTQIK market summary, which carries the TAIEX weighted
// index. Days without a trade are omitted.
func (c *Client) DailyClose(ctx context.Context, symbol backtest.Symbol, r date.Range) ([]backtest.Quote, error) {
	closeColumn := stockCloseColumn
	if symbol.IsIndex() {
		closeColumn = indexCloseColumn
	}

	var quotes []backtest.Quote
	for month := range r.Months() {
		var rows [][]string
		var err error
		if symbol.IsIndex() {
			rows, err = c.fetchIndexMonth(ctx, month.From)
		} else {
			rows, err = c.fetchStockMonth(ctx, stockNo(symbol), month.From)
		}
		if err != nil {
			return nil, fmt.Errorf("fetching %s for %s: %w", symbol, month.From.Format("2006-01"), err)
		}
		for _, row := range rows {
			if len(row) <= closeColumn {
				continue
			}
			day, err := parseROCDate(row[0])
			if err != nil {
				return nil, fmt.Errorf("fetching %s: %w", symbol, err)
			}
			if !r.Contains(day) {
				continue
			}
			price, ok := parsePrice(row[closeColumn])
			if !ok {
				continue
			}
			quotes = append(quotes, backtest.Quote{Symbol: symbol, Day: day, Close: price})
		}
	}
	return quotes, nil
}

// fetchStockMonth queries the STOCK_DAY report for the month containing day.
func (c *Client) fetchStockMonth(ctx context.Context, stockNo string, day date.Date) ([][]string, error) {
	// https://www.twse.com.tw/exchangeReport/STOCK_DAY?response=json&date=20240102&stockNo=2330
	// {
	//   "stat": "OK",
	//   "date": "20240102",
	//   "title": "113年01月 2330 台積電 各日成交資訊",
	//   "fields": ["日期","成交股數","成交金額","開盤價","最高價","最低價","收盤價","漲跌價差","成交筆數"],
	//   "data": [
	//     ["113/01/02","26,059,118","15,404,767,726","590.00","593.00","589.00","593.00","+0.00","24,710"],
	//     ...
	//   ]
	// }
	params := url.Values{}
	params.Set("response", "json")
	params.Set("date", day.Format("20060102"))
	params.Set("stockNo", stockNo)
	return c.fetchReport(ctx, "/exchangeReport/STOCK_DAY", params)
}

// fetchIndexMonth queries the FMTQIK market summary for the month containing
// day. The report has one row per trading day with the TAIEX close.
func (c *Client) fetchIndexMonth(ctx context.Context, day date.Date) ([][]string, error) {
	// https://www.twse.com.tw/exchangeReport/FMTQIK?response=json&date=20240102
	// {
	//   "stat": "OK",
	//   "fields": ["日期","成交股數","成交金額","成交筆數","發行量加權股價指數","漲跌點數"],
	//   "data": [
	//     ["113/01/02","6,163,618,695","325,966,722,871","2,294,326","17,853.76","-76.82"],
	//     ...
	//   ]
	// }
	params := url.Values{}
	params.Set("response", "json")
	params.Set("date", day.Format("20060102"))
	return c.fetchReport(ctx, "/exchangeReport/FMTQIK", params)
}

// reportReply is the common envelope of the exchangeReport endpoints.
type reportReply struct {
	Stat string     `json:"stat"`
	Data [][]string `json:"data"`
}

// fetchReport performs one rate-limited report request and unwraps the data
// rows. A non-OK stat means the month has no rows (before listing, or an
// unknown stock number), not an error.
func (c *Client) fetchReport(ctx context.Context, path string, params url.Values) ([][]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	addr := c.baseURL + path + "?" + params.Encode()
	var reply reportReply
	if err := backtest.JSONGet(ctx, c.httpClient, addr, &reply); err != nil {
		return nil, err
	}
	if reply.Stat != "OK" {
		c.logger.Printf("twse: no rows for %s%s: %s", path, "?"+params.Encode(), reply.Stat)
		return nil, nil
	}
	return reply.Data, nil
}

// stockNo maps a symbol to the exchange stock number, stripping a Yahoo
// style market suffix when present.
func stockNo(symbol backtest.Symbol) string {
	s := string(symbol)
	s = strings.TrimSuffix(s, ".TWO")
	s = strings.TrimSuffix(s, ".TW")
	return s
}

var _ backtest.Source = (*Client)(nil)
