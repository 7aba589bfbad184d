package backtest

import (
	"fmt"
	"math"
)

// CumulativeReturns converts a column of prices into cumulative returns
// against the first price: r[i] = p[i]/p[0] - 1. The first element is always
// exactly 0. Prices are assumed strictly positive, as PriceSeries enforces.
func CumulativeReturns(prices []float64) ([]float64, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("cannot compute returns: %w", ErrEmptySeries)
	}
	base := prices[0]
	returns := make([]float64, len(prices))
	returns[0] = 0
	for i := 1; i < len(prices); i++ {
		returns[i] = prices[i]/base - 1
	}
	return returns, nil
}

// EqualWeight combines all columns of the table into a single synthetic price
// column, the arithmetic mean of the prices on each day. It models buying an
// equal number of baskets of every symbol on day one and holding.
func (t *PriceTable) EqualWeight() []float64 {
	combined := make([]float64, len(t.days))
	for i := range t.days {
		var sum float64
		for _, symbol := range t.symbols {
			sum += t.columns[symbol][i]
		}
		combined[i] = sum / float64(len(t.symbols))
	}
	return combined
}

// Returns computes the cumulative returns of one symbol's column.
func (t *PriceTable) Returns(symbol Symbol) ([]float64, error) {
	col, ok := t.Column(symbol)
	if !ok {
		return nil, fmt.Errorf("symbol %s not in table: %w", symbol, ErrDataUnavailable)
	}
	return CumulativeReturns(col)
}

// Annualize converts a total cumulative return over a horizon in years into
// its compound annual growth rate: (1+total)^(1/years) - 1.
//
// It returns ErrInvalidHorizon when years is not positive or when total is a
// full loss (-100%) or worse.
func Annualize(total, years float64) (float64, error) {
	if years <= 0 || math.IsNaN(years) {
		return 0, fmt.Errorf("horizon %v years: %w", years, ErrInvalidHorizon)
	}
	if total <= -1 || math.IsNaN(total) {
		return 0, fmt.Errorf("total return %v: %w", total, ErrInvalidHorizon)
	}
	return math.Pow(1+total, 1/years) - 1, nil
}
