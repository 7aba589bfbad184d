package backtest

import (
	"context"
	"fmt"

	"github.com/tzuchia/backtest/date"
)

// CompositeSymbol labels the synthetic equal-weight basket in tables and
// charts.
const CompositeSymbol = Symbol("BASKET")

// CompareEntry is one day of the comparison, both cumulative returns since
// the first common day.
type CompareEntry struct {
	Date      date.Date
	Strategy  Percent
	Benchmark Percent
}

// MemberReturn is the total return of one basket member over the compared
// window.
type MemberReturn struct {
	Symbol Symbol
	Total  Percent
}

// CompareReport compares the cumulative returns of an equal-weight basket
// against a benchmark symbol over their common trading days.
type CompareReport struct {
	Basket    []Symbol
	Benchmark Symbol
	Range     date.Range // common days actually covered

	Entries []CompareEntry
	Members []MemberReturn

	StrategyTotal  Percent
	BenchmarkTotal Percent

	// Annualized rates are only set when the covered range spans time.
	Annualized      bool
	StrategyAnnual  Percent
	BenchmarkAnnual Percent

	Warnings []Warning

	// Prices keeps the aligned basket prices for further export.
	Prices *PriceTable
}

// NewCompareReport loads the basket and the benchmark over the range and
// compares them.
//
// Basket symbols that fail to load are dropped with a warning, the basket
// fails only when empty. The benchmark is required: its failure is terminal.
func NewCompareReport(ctx context.Context, loader *Loader, basket []Symbol, benchmark Symbol, r date.Range) (*CompareReport, error) {
	table, warnings, err := loader.Load(ctx, basket, r)
	if err != nil {
		return nil, fmt.Errorf("loading basket: %w", err)
	}
	benchTable, _, err := loader.Load(ctx, []Symbol{benchmark}, r)
	if err != nil {
		return nil, fmt.Errorf("loading benchmark %s: %w", benchmark, err)
	}

	// The basket becomes a single synthetic instrument, then is aligned with
	// the benchmark so both returns start at zero on the same day.
	composite := NewPriceSeries(CompositeSymbol)
	weighted := table.EqualWeight()
	for i, day := range table.Days() {
		composite.prices.Append(day, weighted[i])
	}
	benchCol, _ := benchTable.Column(benchmark)
	bench := NewPriceSeries(benchmark)
	for i, day := range benchTable.Days() {
		bench.prices.Append(day, benchCol[i])
	}

	joint, err := Align(composite, bench)
	if err != nil {
		return nil, fmt.Errorf("aligning basket with benchmark %s: %w", benchmark, err)
	}

	strategy, err := joint.Returns(CompositeSymbol)
	if err != nil {
		return nil, err
	}
	benchmarkReturns, err := joint.Returns(benchmark)
	if err != nil {
		return nil, err
	}

	report := &CompareReport{
		Basket:    table.Symbols(),
		Benchmark: benchmark,
		Range:     joint.Range(),
		Warnings:  warnings,
		Prices:    table,
	}
	for i, day := range joint.Days() {
		report.Entries = append(report.Entries, CompareEntry{
			Date:      day,
			Strategy:  AsPercent(strategy[i]),
			Benchmark: AsPercent(benchmarkReturns[i]),
		})
	}
	report.StrategyTotal = AsPercent(strategy[len(strategy)-1])
	report.BenchmarkTotal = AsPercent(benchmarkReturns[len(benchmarkReturns)-1])

	if years := report.Range.Years(); years > 0 {
		sa, err := Annualize(strategy[len(strategy)-1], years)
		if err != nil {
			return nil, err
		}
		ba, err := Annualize(benchmarkReturns[len(benchmarkReturns)-1], years)
		if err != nil {
			return nil, err
		}
		report.Annualized = true
		report.StrategyAnnual = AsPercent(sa)
		report.BenchmarkAnnual = AsPercent(ba)
	}

	for _, symbol := range table.Symbols() {
		total, err := memberTotal(table, symbol, report.Range)
		if err != nil {
			return nil, err
		}
		report.Members = append(report.Members, MemberReturn{Symbol: symbol, Total: AsPercent(total)})
	}
	return report, nil
}

// memberTotal computes one symbol's return between the bounds of the compared
// window, reading its column as-of each bound.
func memberTotal(table *PriceTable, symbol Symbol, r date.Range) (float64, error) {
	col, ok := table.Column(symbol)
	if !ok {
		return 0, fmt.Errorf("symbol %s not in table: %w", symbol, ErrDataUnavailable)
	}
	series := NewPriceSeries(symbol)
	for i, day := range table.Days() {
		series.prices.Append(day, col[i])
	}
	first, ok := series.ValueAsOf(r.From)
	if !ok {
		// The basket started after the compared window opened, fall back to
		// its own first price.
		_, first = series.First()
	}
	last, ok := series.ValueAsOf(r.To)
	if !ok {
		return 0, fmt.Errorf("no price for %s by %s: %w", symbol, r.To, ErrDataUnavailable)
	}
	return last/first - 1, nil
}
