package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tzuchia/backtest"
)

type exportCmd struct {
	symbols string
	csv     bool
	output  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the local database out as a file" }
func (*exportCmd) Usage() string {
	return `twb export [-s <symbols>] [-csv] [-o <file>]

  Writes the local market database out, all symbols or just -s, to standard
  output or to -o.

  The default format is the JSONL series format 'twb import' reads back,
  one symbol per line. With -csv a single symbol is written as 'Date,Close'
  rows instead.

Usage Examples:
# Move a database between machines.
$ twb export -o backup.jsonl

# One symbol back into spreadsheet shape.
$ twb export -csv -s 2330 -o 2330.csv

`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "s", "", "Comma separated symbols to export. All stored symbols by default.")
	f.BoolVar(&c.csv, "csv", false, "Write 'Date,Close' CSV rows. Requires a single symbol.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to standard output.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := DecodeStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	symbols := store.Symbols()
	if c.symbols != "" {
		symbols, err = backtest.ParseSymbols(c.symbols)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -s: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if len(symbols) == 0 {
		fmt.Fprintf(os.Stderr, "Nothing to export, the market database %q is empty.\n", *storePath)
		return subcommands.ExitFailure
	}

	out := os.Stdout
	if c.output != "" {
		out, err = os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}

	if c.csv {
		if len(symbols) != 1 {
			fmt.Fprintln(os.Stderr, "Error: -csv exports exactly one symbol, pass it with -s.")
			return subcommands.ExitUsageError
		}
		r, ok := store.Coverage(symbols[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no stored prices for %s.\n", symbols[0])
			return subcommands.ExitFailure
		}
		err = backtest.ExportSymbolCSV(out, store.Series(symbols[0], r))
	} else {
		var narrowed *backtest.MarketData
		narrowed, err = narrow(store, symbols)
		if err == nil {
			err = backtest.ExportSeries(out, narrowed)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// narrow returns a database holding only the given symbols of m.
func narrow(m *backtest.MarketData, symbols []backtest.Symbol) (*backtest.MarketData, error) {
	out := backtest.NewMarketData()
	for _, symbol := range symbols {
		r, ok := m.Coverage(symbol)
		if !ok {
			return nil, fmt.Errorf("no stored prices for %s", symbol)
		}
		for day, price := range m.Series(symbol, r).Values() {
			out.Append(symbol, day, price)
		}
	}
	return out, nil
}
