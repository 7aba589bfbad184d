package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/tzuchia/backtest"
)

type importCmd struct {
	csv    string
	symbol string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge prices from a file into the local database" }
func (*importCmd) Usage() string {
	return `twb import [-csv <file|folder> [-s <symbol>]] [<file>]

  Merges prices into the local market database.

  With -csv, reads daily closes from a CSV file with 'Date' and 'Close'
  header columns. The symbol defaults to the file name, so 'data/2330.csv'
  imports as 2330. A folder imports every *.csv inside it that way.

  Otherwise reads the JSONL series format written by 'twb export', one
  symbol per line, from the given file or from standard input.

Usage Examples:
# One spreadsheet-era file, or the whole data folder.
$ twb import -csv data/2330.csv
$ twb import -csv data/

# Merge a database exported elsewhere.
$ twb export | twb -d /tmp/copy import

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "CSV file with Date and Close columns, or a folder of them, one symbol per file.")
	f.StringVar(&c.symbol, "s", "", "Symbol for a single -csv file. Defaults to the file name.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := DecodeStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var imported int
	if c.csv != "" {
		imported, err = c.importCSV(store)
	} else {
		imported, err = c.importSeries(store, f)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if err := EncodeStore(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving market database: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d prices into %s\n", imported, *storePath)
	return subcommands.ExitSuccess
}

func (c *importCmd) importCSV(store *backtest.MarketData) (int, error) {
	fi, err := os.Stat(c.csv)
	if err != nil {
		return 0, err
	}
	if !fi.IsDir() {
		return importCSVFile(store, c.csv, c.symbol)
	}

	// A folder of <symbol>.csv files, the original data layout.
	files, err := filepath.Glob(filepath.Join(c.csv, "*.csv"))
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no *.csv files in %q", c.csv)
	}
	var imported int
	for _, file := range files {
		n, err := importCSVFile(store, file, "")
		if err != nil {
			return imported, fmt.Errorf("importing %q: %w", file, err)
		}
		imported += n
	}
	return imported, nil
}

// importCSVFile merges one CSV file into the store, under the given symbol or
// the file name.
func importCSVFile(store *backtest.MarketData, path, name string) (int, error) {
	if name == "" {
		name = csvSymbol(path)
	}
	symbol, err := backtest.ParseSymbol(name)
	if err != nil {
		return 0, fmt.Errorf("cannot derive a symbol for %q: %w", path, err)
	}

	in, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	series, err := backtest.ImportCSV(in, symbol)
	if err != nil {
		return 0, err
	}
	for day, price := range series.Values() {
		store.Append(symbol, day, price)
	}
	return series.Len(), nil
}

func (c *importCmd) importSeries(store *backtest.MarketData, f *flag.FlagSet) (int, error) {
	var in io.Reader = os.Stdin
	if f.NArg() > 0 {
		file, err := os.Open(f.Arg(0))
		if err != nil {
			return 0, err
		}
		defer file.Close()
		in = file
	}

	other, err := backtest.ImportSeries(in)
	if err != nil {
		return 0, err
	}
	store.Merge(other)
	return count(other, other.Symbols()), nil
}

// csvSymbol derives the symbol from a CSV file name, 'data/2330.csv' is 2330.
func csvSymbol(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
