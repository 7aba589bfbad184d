package backtest

import (
	"context"
	"fmt"

	"github.com/tzuchia/backtest/date"
)

// ProjectionReport presents a savings plan projection with money formatting
// for the reporting currency.
type ProjectionReport struct {
	Currency       string
	Initial        Money
	Contribution   Money
	AnnualRate     Percent
	PeriodsPerYear int
	Periods        int

	Points ProjectionSeries

	Principal Money // total paid in by the last period
	Total     Money // projected value at the last period
	Gain      Money // Total - Principal
}

// NewProjectionReport projects a savings plan starting at 'start' and wraps
// the result for presentation.
func NewProjectionReport(start date.Date, initial, contribution, annualRate float64, periodsPerYear, periods int, currency string) (*ProjectionReport, error) {
	points, err := Project(start, initial, contribution, annualRate, periodsPerYear, periods)
	if err != nil {
		return nil, err
	}

	last := points[len(points)-1]
	return &ProjectionReport{
		Currency:       currency,
		Initial:        M(initial, currency),
		Contribution:   M(contribution, currency),
		AnnualRate:     AsPercent(annualRate),
		PeriodsPerYear: periodsPerYear,
		Periods:        periods,
		Points:         points,
		Principal:      M(last.Principal, currency),
		Total:          M(last.Value, currency),
		Gain:           M(last.Value, currency).Sub(M(last.Principal, currency)),
	}, nil
}

// NewProjectionFromHistory derives the annual rate from a symbol's observed
// performance over a past range, then projects the plan forward with it.
//
// The derivation annualizes the symbol's total return over the observed
// range, it fails with ErrInvalidHorizon when the range covers no time.
func NewProjectionFromHistory(ctx context.Context, loader *Loader, symbol Symbol, observed date.Range, start date.Date, initial, contribution float64, periodsPerYear, periods int, currency string) (*ProjectionReport, error) {
	table, _, err := loader.Load(ctx, []Symbol{symbol}, observed)
	if err != nil {
		return nil, fmt.Errorf("loading history of %s: %w", symbol, err)
	}
	returns, err := table.Returns(symbol)
	if err != nil {
		return nil, err
	}
	total := returns[len(returns)-1]
	rate, err := Annualize(total, table.Range().Years())
	if err != nil {
		return nil, fmt.Errorf("annualizing %s over %s to %s: %w", symbol, observed.From, observed.To, err)
	}
	return NewProjectionReport(start, initial, contribution, rate, periodsPerYear, periods, currency)
}
