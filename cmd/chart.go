package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type chartCmd struct {
	basket    string
	benchmark string
	from      string
	to        string
	source    string
	output    string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render a comparison as a PNG chart" }
func (*chartCmd) Usage() string {
	return `twb chart -basket <symbols> [-benchmark <symbol>] [-from <date>] [-to <date>] [-o <file>]

  Runs the same backtest as 'twb compare' but renders the cumulative return
  curves as a PNG chart instead of a markdown report.

Usage Examples:
# A decade of the classic three, as a picture.
$ twb chart -basket 2330,2317,2412 -from 2015-01-01 -o decade.png

`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.basket, "basket", "", "Comma separated symbols forming the basket. See 'twb topic symbols'.")
	f.StringVar(&c.benchmark, "benchmark", "0050", "Benchmark symbol to compare the basket against.")
	f.StringVar(&c.from, "from", "", "Start date. Defaults to one year before -to.")
	f.StringVar(&c.to, "to", "", "End date. Defaults to today.")
	f.StringVar(&c.source, "source", "store", "Price source, store, twse or yahoo.")
	f.StringVar(&c.output, "o", "compare.png", "File to write the chart to.")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, status := loadCompareReport(ctx, f, c.basket, c.benchmark, c.from, c.to, c.source)
	if report == nil {
		return status
	}
	if err := writeCompareChart(report, c.output); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
