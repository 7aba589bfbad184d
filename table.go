package backtest

import (
	"fmt"
	"iter"

	"github.com/tzuchia/backtest/date"
)

// PriceTable is a set of price series aligned on a common list of trading
// days. Alignment forward-fills each series over its own gaps (a close stands
// until the next observation) and drops the days where any series has not yet
// started, so every remaining day has a price in every column.
type PriceTable struct {
	symbols []Symbol
	days    []date.Date
	columns map[Symbol][]float64
}

// Align builds a PriceTable from one or more price series.
//
// The table index is the union of all observed days. On each day every series
// is read as-of that day, days before a series' first observation are dropped
// entirely. It returns ErrDataUnavailable when no series is given, when a
// series is empty, or when no day survives the alignment.
func Align(series ...*PriceSeries) (*PriceTable, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to align: %w", ErrDataUnavailable)
	}

	histories := make([]*date.History[float64], 0, len(series))
	seen := make(map[Symbol]struct{}, len(series))
	for _, s := range series {
		if s.Len() == 0 {
			return nil, fmt.Errorf("series %s has no prices: %w", s.Symbol(), ErrDataUnavailable)
		}
		if _, dup := seen[s.Symbol()]; dup {
			return nil, fmt.Errorf("duplicate series for %s", s.Symbol())
		}
		seen[s.Symbol()] = struct{}{}
		histories = append(histories, &s.prices)
	}

	t := &PriceTable{
		symbols: make([]Symbol, 0, len(series)),
		columns: make(map[Symbol][]float64, len(series)),
	}
	for _, s := range series {
		t.symbols = append(t.symbols, s.Symbol())
	}

	for day := range date.Iterate(histories...) {
		row := make([]float64, len(series))
		complete := true
		for i, s := range series {
			v, ok := s.ValueAsOf(day)
			if !ok {
				// This day predates the series' first observation.
				complete = false
				break
			}
			row[i] = v
		}
		if !complete {
			continue
		}
		t.days = append(t.days, day)
		for i, s := range series {
			t.columns[s.Symbol()] = append(t.columns[s.Symbol()], row[i])
		}
	}

	if len(t.days) == 0 {
		return nil, fmt.Errorf("no common trading days across %d series: %w", len(series), ErrDataUnavailable)
	}
	return t, nil
}

// Symbols returns the table's column symbols, in the order given to Align.
func (t *PriceTable) Symbols() []Symbol { return t.symbols }

// Len returns the number of aligned days.
func (t *PriceTable) Len() int { return len(t.days) }

// Days returns the aligned days in chronological order.
func (t *PriceTable) Days() []date.Date { return t.days }

// Range returns the range from the first to the last aligned day.
func (t *PriceTable) Range() date.Range {
	if len(t.days) == 0 {
		return date.Range{}
	}
	return date.Range{From: t.days[0], To: t.days[len(t.days)-1]}
}

// Column returns the aligned prices for a symbol, one per day.
func (t *PriceTable) Column(symbol Symbol) ([]float64, bool) {
	col, ok := t.columns[symbol]
	return col, ok
}

// Rows returns an iterator over (day, prices) pairs. Prices follow the
// Symbols() order and the slice is reused between iterations.
func (t *PriceTable) Rows() iter.Seq2[date.Date, []float64] {
	return func(yield func(date.Date, []float64) bool) {
		row := make([]float64, len(t.symbols))
		for i, day := range t.days {
			for j, symbol := range t.symbols {
				row[j] = t.columns[symbol][i]
			}
			if !yield(day, row) {
				return
			}
		}
	}
}
