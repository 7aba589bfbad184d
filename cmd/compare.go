package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tzuchia/backtest"
	"github.com/tzuchia/backtest/renderer"
)

type compareCmd struct {
	basket    string
	benchmark string
	from      string
	to        string
	source    string
	png       string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "backtest an equal-weight basket against a benchmark" }
func (*compareCmd) Usage() string {
	return `twb compare -basket <symbols> [-benchmark <symbol>] [-from <date>] [-to <date>] [-source store|twse|yahoo] [-png <file>]

  Backtests an equal-weight basket against a benchmark over their common
  trading days: the basket price is the daily arithmetic mean of the member
  prices, and cumulative returns are measured from the first common day so
  both curves start at 0%.

  Members whose prices cannot be loaded are dropped with a warning; a
  missing benchmark fails the comparison.

Usage Examples:
# The classic three against the Taiwan 50 ETF.
$ twb compare -basket 2330,2317,2412 -benchmark 0050 -from 2020-01-01

# Straight from the exchange, skipping the local database.
$ twb compare -basket 2330 -source twse -from 2024-01-01

`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.basket, "basket", "", "Comma separated symbols forming the basket. See 'twb topic symbols'.")
	f.StringVar(&c.benchmark, "benchmark", "0050", "Benchmark symbol to compare the basket against.")
	f.StringVar(&c.from, "from", "", "Start date. Defaults to one year before -to.")
	f.StringVar(&c.to, "to", "", "End date. Defaults to today.")
	f.StringVar(&c.source, "source", "store", "Price source, store, twse or yahoo.")
	f.StringVar(&c.png, "png", "", "Also write the comparison chart to this PNG file.")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, status := loadCompareReport(ctx, f, c.basket, c.benchmark, c.from, c.to, c.source)
	if report == nil {
		return status
	}

	printMarkdown(renderer.CompareMarkdown(report))

	if c.png != "" {
		if err := writeCompareChart(report, c.png); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// loadCompareReport parses the comparison flags shared by compare and chart,
// loads the prices, and builds the report. On failure it reports on stderr
// and returns a nil report with the exit status to use.
func loadCompareReport(ctx context.Context, f *flag.FlagSet, basket, benchmark, from, to, source string) (*backtest.CompareReport, subcommands.ExitStatus) {
	if basket == "" {
		fmt.Fprintln(os.Stderr, "Error: -basket is required.")
		f.Usage()
		return nil, subcommands.ExitUsageError
	}
	symbols, err := backtest.ParseSymbols(basket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -basket: %v\n", err)
		return nil, subcommands.ExitUsageError
	}
	bench, err := backtest.ParseSymbol(benchmark)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -benchmark: %v\n", err)
		return nil, subcommands.ExitUsageError
	}
	r, err := rangeOf(from, to, 12)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, subcommands.ExitUsageError
	}
	src, err := sourceFor(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, subcommands.ExitUsageError
	}

	report, err := backtest.NewCompareReport(ctx, backtest.NewLoader(src), symbols, bench, r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, backtest.ErrDataUnavailable) && source == "store" {
			fmt.Fprintf(os.Stderr, "The local database may not cover these symbols yet, try 'twb fetch -s %s,%s' first.\n", basket, bench)
		}
		return nil, subcommands.ExitFailure
	}
	printWarnings(report.Warnings)
	return report, subcommands.ExitSuccess
}

func writeCompareChart(report *backtest.CompareReport, path string) error {
	png, err := renderer.CompareChart(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Chart written to %s\n", path)
	return nil
}
