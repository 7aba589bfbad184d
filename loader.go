package backtest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tzuchia/backtest/date"
)

// Source provides daily closing prices for a symbol over a date range.
// Implementations live in the twse and yahoo packages.
type Source interface {
	DailyClose(ctx context.Context, symbol Symbol, r date.Range) ([]Quote, error)
}

// Warning reports a symbol that was dropped from a load, and why.
type Warning struct {
	Symbol Symbol
	Err    error
}

func (w Warning) String() string { return fmt.Sprintf("%s dropped: %v", w.Symbol, w.Err) }

const (
	// DefaultTimeout bounds a single symbol's fetch.
	DefaultTimeout = 15 * time.Second
	// DefaultConcurrency bounds how many symbols are fetched at once.
	DefaultConcurrency = 4
)

// Loader fetches daily prices for a set of symbols from a Source and aligns
// them into a PriceTable.
type Loader struct {
	source      Source
	timeout     time.Duration
	concurrency int
	logger      *log.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout sets the per-symbol fetch timeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

// WithConcurrency sets how many symbols may be fetched concurrently.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader reading from the given source.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:      source,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches one price series per symbol over the range and aligns them.
//
// Symbols are fetched concurrently and independently. A symbol whose fetch
// fails, or that has no usable quote in the range, is dropped and reported in
// the returned warnings rather than aborting the batch. Load fails with
// ErrInvalidRange when the range is inverted, and with ErrDataUnavailable
// when no symbol at all survives.
func (l *Loader) Load(ctx context.Context, symbols []Symbol, r date.Range) (*PriceTable, []Warning, error) {
	if r.From.After(r.To) {
		return nil, nil, fmt.Errorf("start %s is after end %s: %w", r.From, r.To, ErrInvalidRange)
	}
	symbols = dedupe(symbols)
	if len(symbols) == 0 {
		return nil, nil, fmt.Errorf("no symbols requested: %w", ErrDataUnavailable)
	}

	type result struct {
		symbol Symbol
		series *PriceSeries
		err    error
	}
	results := make(chan result, len(symbols))
	sem := make(chan struct{}, l.concurrency)

	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fetchCtx, cancel := context.WithTimeout(ctx, l.timeout)
			defer cancel()

			quotes, err := l.source.DailyClose(fetchCtx, symbol, r)
			if err != nil {
				results <- result{symbol: symbol, err: err}
				return
			}
			series := seriesFromQuotes(symbol, quotes)
			if series.Len() == 0 {
				results <- result{symbol: symbol, err: fmt.Errorf("no quotes between %s and %s: %w", r.From, r.To, ErrDataUnavailable)}
				return
			}
			results <- result{symbol: symbol, series: series}
		}()
	}
	wg.Wait()
	close(results)

	bySymbol := make(map[Symbol]result, len(symbols))
	for res := range results {
		bySymbol[res.symbol] = res
	}

	// Keep the request order for columns and warnings.
	var series []*PriceSeries
	var warnings []Warning
	for _, symbol := range symbols {
		res := bySymbol[symbol]
		if res.err != nil {
			l.logger.Printf("load-warning symbol=%s err=%v", symbol, res.err)
			warnings = append(warnings, Warning{Symbol: symbol, Err: res.err})
			continue
		}
		series = append(series, res.series)
	}

	if len(series) == 0 {
		errs := make([]error, 0, len(warnings)+1)
		errs = append(errs, fmt.Errorf("none of the %d symbols has data: %w", len(symbols), ErrDataUnavailable))
		for _, w := range warnings {
			errs = append(errs, w.Err)
		}
		return nil, warnings, errors.Join(errs...)
	}

	table, err := Align(series...)
	if err != nil {
		return nil, warnings, err
	}
	return table, warnings, nil
}

// dedupe removes repeated symbols, keeping the first occurrence order.
func dedupe(symbols []Symbol) []Symbol {
	seen := make(map[Symbol]struct{}, len(symbols))
	out := symbols[:0:0]
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
