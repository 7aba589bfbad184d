package backtest

import (
	"fmt"
	"iter"
	"math"

	"github.com/tzuchia/backtest/date"
)

// Quote is a single daily closing price for a symbol, as returned by a market
// data source.
type Quote struct {
	Symbol Symbol
	Day    date.Date
	Close  float64
}

// PriceSeries is a chronological series of daily closing prices for a single
// symbol. Days are unique and sorted, and every price is strictly positive.
type PriceSeries struct {
	symbol Symbol
	prices date.History[float64]
}

// NewPriceSeries returns an empty series for the given symbol.
func NewPriceSeries(symbol Symbol) *PriceSeries {
	return &PriceSeries{symbol: symbol}
}

// Symbol returns the symbol this series prices.
func (s *PriceSeries) Symbol() Symbol { return s.symbol }

// Append records the closing price for a day. Appending the same day twice
// overwrites the previous value, the last write wins.
func (s *PriceSeries) Append(on date.Date, close float64) error {
	if math.IsNaN(close) || math.IsInf(close, 0) || close <= 0 {
		return fmt.Errorf("%s on %s: close %v is not a positive price", s.symbol, on, close)
	}
	s.prices.Append(on, close)
	return nil
}

// Len returns the number of days priced.
func (s *PriceSeries) Len() int { return s.prices.Len() }

// Get returns the closing price on an exact day.
func (s *PriceSeries) Get(on date.Date) (float64, bool) { return s.prices.Get(on) }

// ValueAsOf returns the closing price on a day, or the most recent one before
// it. There is no value before the first observed day.
func (s *PriceSeries) ValueAsOf(on date.Date) (float64, bool) { return s.prices.ValueAsOf(on) }

// First returns the earliest priced day and its close.
func (s *PriceSeries) First() (date.Date, float64) { return s.prices.First() }

// Latest returns the most recent priced day and its close.
func (s *PriceSeries) Latest() (date.Date, float64) { return s.prices.Latest() }

// Values returns an iterator over all (day, close) pairs in chronological order.
func (s *PriceSeries) Values() iter.Seq2[date.Date, float64] { return s.prices.Values() }

// Clip returns a new series keeping only the days within the range.
func (s *PriceSeries) Clip(r date.Range) *PriceSeries {
	clipped := NewPriceSeries(s.symbol)
	for day, close := range s.prices.Values() {
		if r.Contains(day) {
			clipped.prices.Append(day, close)
		}
	}
	return clipped
}

// seriesFromQuotes builds a series from raw provider quotes, dropping
// non-positive closes. Quotes for other symbols are a programming error.
func seriesFromQuotes(symbol Symbol, quotes []Quote) *PriceSeries {
	s := NewPriceSeries(symbol)
	for _, q := range quotes {
		if q.Symbol != "" && q.Symbol != symbol {
			continue
		}
		if math.IsNaN(q.Close) || math.IsInf(q.Close, 0) || q.Close <= 0 {
			continue
		}
		s.prices.Append(q.Day, q.Close)
	}
	return s
}
