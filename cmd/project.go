package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tzuchia/backtest"
	"github.com/tzuchia/backtest/date"
	"github.com/tzuchia/backtest/renderer"
)

type projectCmd struct {
	initial      float64
	contribution float64
	rate         float64
	ppy          int
	periods      int
	start        string
	like         string
	from         string
	to           string
	source       string
	currency     string
	png          string
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project a savings plan with compound growth" }
func (*projectCmd) Usage() string {
	return `twb project [-initial <amount>] [-contribution <amount>] [-rate <percent>] [-periods <n>] [-ppy <n>] [-like <symbol>] [-png <file>]

  Projects the value of a savings plan: an initial investment plus a fixed
  contribution per period, compounding at a constant rate. The rate is
  annual, in percent, and is converted to a per-period rate by simple
  division by -ppy.

  With -like the rate is not given by hand: it is the annualized historical
  return of a symbol over the observed window (-from/-to, ten years by
  default), so the projection answers "what if the next decade looks like
  the last one".

Usage Examples:
# 100k TWD upfront, 5k monthly, at 7% for ten years.
$ twb project -initial 100000 -contribution 5000

# Same plan, but growing like the Taiwan 50 ETF did.
$ twb project -initial 100000 -contribution 5000 -like 0050

`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.initial, "initial", 0, "Initial investment amount.")
	f.Float64Var(&c.contribution, "contribution", 0, "Contribution added at the end of each period.")
	f.Float64Var(&c.rate, "rate", 7, "Annual growth rate in percent.")
	f.IntVar(&c.ppy, "ppy", 12, "Periods per year.")
	f.IntVar(&c.periods, "periods", 120, "Number of periods to project.")
	f.StringVar(&c.start, "start", "", "Start date of the plan. Defaults to today.")
	f.StringVar(&c.like, "like", "", "Derive the rate from this symbol's history instead of -rate.")
	f.StringVar(&c.from, "from", "", "Start of the observed history for -like. Defaults to ten years before -to.")
	f.StringVar(&c.to, "to", "", "End of the observed history for -like. Defaults to today.")
	f.StringVar(&c.source, "source", "store", "Price source for -like, store, twse or yahoo.")
	f.StringVar(&c.currency, "c", backtest.DefaultCurrency, "Currency the amounts are expressed in.")
	f.StringVar(&c.png, "png", "", "Also write the projection chart to this PNG file.")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start := date.Today()
	if c.start != "" {
		var err error
		start, err = date.Parse(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -start: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	var report *backtest.ProjectionReport
	var err error
	if c.like != "" {
		report, err = c.projectFromHistory(ctx, start)
	} else {
		report, err = backtest.NewProjectionReport(start, c.initial, c.contribution, c.rate/100, c.ppy, c.periods, c.currency)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ProjectionMarkdown(report))

	if c.png != "" {
		png, err := renderer.ProjectionChart(report)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.png, png, 0644); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Chart written to %s\n", c.png)
	}
	return subcommands.ExitSuccess
}

func (c *projectCmd) projectFromHistory(ctx context.Context, start date.Date) (*backtest.ProjectionReport, error) {
	symbol, err := backtest.ParseSymbol(c.like)
	if err != nil {
		return nil, fmt.Errorf("parsing -like: %w", err)
	}
	observed, err := rangeOf(c.from, c.to, 120)
	if err != nil {
		return nil, err
	}
	src, err := sourceFor(c.source)
	if err != nil {
		return nil, err
	}
	return backtest.NewProjectionFromHistory(ctx, backtest.NewLoader(src), symbol, observed, start, c.initial, c.contribution, c.ppy, c.periods, c.currency)
}
