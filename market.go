package backtest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/tzuchia/backtest/date"
)

// MarketData holds daily closing prices for a set of symbols. It is the local
// price database that the fetch command maintains, and it implements Source
// so the rest of the pipeline can run offline from it.
type MarketData struct {
	symbols []Symbol
	prices  map[Symbol]*date.History[float64]
}

// NewMarketData returns a new empty market data collection.
func NewMarketData() *MarketData {
	return &MarketData{
		symbols: make([]Symbol, 0),
		prices:  make(map[Symbol]*date.History[float64]),
	}
}

// Has reports whether the symbol is known.
func (m *MarketData) Has(symbol Symbol) bool {
	_, ok := m.prices[symbol]
	return ok
}

// Symbols returns all known symbols in alphabetical order.
func (m *MarketData) Symbols() []Symbol {
	symbols := make([]Symbol, len(m.symbols))
	copy(symbols, m.symbols)
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// Add declares a symbol without prices. Adding twice is a no-op.
func (m *MarketData) Add(symbol Symbol) {
	if m.Has(symbol) {
		return
	}
	m.symbols = append(m.symbols, symbol)
	m.prices[symbol] = new(date.History[float64])
}

// Append records the closing price of a symbol on a day, declaring the symbol
// if needed. The same day is overwritten, the last write wins.
func (m *MarketData) Append(symbol Symbol, on date.Date, price float64) {
	m.Add(symbol)
	m.prices[symbol].Append(on, price)
}

// read a single value from the database for a given (symbol, day).
func (m *MarketData) read(symbol Symbol, day date.Date) (float64, bool) {
	prices, ok := m.prices[symbol]
	if !ok {
		return 0.0, false
	}
	return prices.Get(day)
}

// Latest returns the most recent priced day for a symbol.
func (m *MarketData) Latest(symbol Symbol) (date.Date, float64) {
	prices, ok := m.prices[symbol]
	if !ok {
		return date.Date{}, 0
	}
	return prices.Latest()
}

// Len returns the number of prices stored for a symbol.
func (m *MarketData) Len(symbol Symbol) int {
	prices, ok := m.prices[symbol]
	if !ok {
		return 0
	}
	return prices.Len()
}

// Coverage returns the range between the first and last priced days of a
// symbol, false when nothing is stored for it.
func (m *MarketData) Coverage(symbol Symbol) (date.Range, bool) {
	prices, ok := m.prices[symbol]
	if !ok || prices.Len() == 0 {
		return date.Range{}, false
	}
	first, _ := prices.First()
	last, _ := prices.Latest()
	return date.Range{From: first, To: last}, true
}

// Merge copies every price of other into m, other winning on common days.
func (m *MarketData) Merge(other *MarketData) {
	for _, symbol := range other.Symbols() {
		m.Add(symbol)
		for day, price := range other.prices[symbol].Values() {
			m.prices[symbol].Append(day, price)
		}
	}
}

// Series returns the stored prices of a symbol clipped to the range.
func (m *MarketData) Series(symbol Symbol, r date.Range) *PriceSeries {
	series := NewPriceSeries(symbol)
	prices, ok := m.prices[symbol]
	if !ok {
		return series
	}
	for day, price := range prices.Values() {
		if r.Contains(day) {
			series.prices.Append(day, price)
		}
	}
	return series
}

// DailyClose implements Source from the stored prices, making the database
// usable wherever a live provider is.
func (m *MarketData) DailyClose(_ context.Context, symbol Symbol, r date.Range) ([]Quote, error) {
	prices, ok := m.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol %s not in database: %w", symbol, ErrDataUnavailable)
	}
	var quotes []Quote
	for day, price := range prices.Values() {
		if r.Contains(day) {
			quotes = append(quotes, Quote{Symbol: symbol, Day: day, Close: price})
		}
	}
	return quotes, nil
}

// Update fetches from the source the prices missing between r.From and r.To
// for each symbol, and appends them to the database. A symbol already priced
// through r.To is skipped, otherwise fetching resumes the day after its
// latest known price. It returns a joined error if any symbol fails, after
// trying them all.
func (m *MarketData) Update(ctx context.Context, src Source, symbols []Symbol, r date.Range) error {
	if r.From.After(r.To) {
		return fmt.Errorf("start %s is after end %s: %w", r.From, r.To, ErrInvalidRange)
	}

	var errs error
	for _, symbol := range dedupe(symbols) {
		m.Add(symbol)
		latest, _ := m.prices[symbol].Latest()

		// Already up-to-date.
		if !latest.Before(r.To) {
			continue
		}

		// Resume from the day after the latest known price.
		fetchFrom := r.From
		if !latest.IsZero() && !latest.Add(1).Before(r.From) {
			fetchFrom = latest.Add(1)
		}
		if fetchFrom.After(r.To) {
			continue
		}

		quotes, err := src.DailyClose(ctx, symbol, date.Range{From: fetchFrom, To: r.To})
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to update %s: %w", symbol, err))
			continue
		}
		if len(quotes) == 0 {
			log.Printf("no new prices found for %q between %s and %s", symbol, fetchFrom, r.To)
			continue
		}
		for _, q := range quotes {
			if q.Close > 0 {
				m.prices[symbol].Append(q.Day, q.Close)
			}
		}
	}
	return errs
}
