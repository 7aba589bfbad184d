package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tzuchia/backtest"
)

type fetchCmd struct {
	symbols string
	from    string
	to      string
	source  string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch daily closing prices into the local database" }
func (*fetchCmd) Usage() string {
	return `twb fetch -s <symbols> [-from <date>] [-to <date>] [-source twse|yahoo]

  Fetches daily closing prices for the symbols and merges them into the
  local market database. Fetching is incremental: each symbol resumes the
  day after its last stored price, so re-running is cheap.

  The twse source reads the exchange's own reports one month per request
  and serves Taiwan listings and ^TWII. Anything else, like a foreign
  index, must come from yahoo.

Usage Examples:
# One year of TSMC and Hon Hai from the exchange.
$ twb fetch -s 2330,2317

# A foreign index from yahoo.
$ twb fetch -source yahoo -s ^GSPC -from 2024-01-01

`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "s", "", "Comma separated symbols to fetch. See 'twb topic symbols'.")
	f.StringVar(&c.from, "from", "", "Start date. Defaults to one year before -to.")
	f.StringVar(&c.to, "to", "", "End date. Defaults to today.")
	f.StringVar(&c.source, "source", "twse", "Price source, twse or yahoo.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbols == "" {
		fmt.Fprintln(os.Stderr, "Error: -s is required, nothing to fetch.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	symbols, err := backtest.ParseSymbols(c.symbols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -s: %v\n", err)
		return subcommands.ExitUsageError
	}
	r, err := rangeOf(c.from, c.to, 12)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if c.source == "store" {
		fmt.Fprintln(os.Stderr, "Error: cannot fetch from the store into itself, pick twse or yahoo.")
		return subcommands.ExitUsageError
	}
	src, err := sourceFor(c.source)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	store, err := DecodeStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	before := count(store, symbols)
	fetchErr := store.Update(ctx, src, symbols, r)
	if fetchErr != nil {
		// Partial results are still worth saving.
		fmt.Fprintf(os.Stderr, "Error fetching: %v\n", fetchErr)
	}

	if err := EncodeStore(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving market database: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Fetched %d new closing prices into %s\n", count(store, symbols)-before, *storePath)
	if fetchErr != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// count sums the stored prices of the given symbols.
func count(m *backtest.MarketData, symbols []backtest.Symbol) int {
	n := 0
	for _, symbol := range symbols {
		n += m.Len(symbol)
	}
	return n
}
