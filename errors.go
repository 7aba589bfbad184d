package backtest

import "errors"

// Sentinel errors returned by the pricing and backtest pipeline. They are
// always wrapped with context, match them with errors.Is.
var (
	// ErrInvalidRange reports a request whose start date is after its end date.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrDataUnavailable reports that no usable quote was found for a request.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrEmptySeries reports a computation over a series with no points.
	ErrEmptySeries = errors.New("empty price series")
	// ErrInvalidHorizon reports an annualization over a non-positive horizon
	// or a total return of -100% or worse.
	ErrInvalidHorizon = errors.New("invalid annualization horizon")
)
