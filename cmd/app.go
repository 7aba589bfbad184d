// Package cmd implements the CLI application to fetch market data and run
// backtests on it.
package cmd

import (
	"fmt"
	"io"
	"os"

	"flag"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/tzuchia/backtest"
	"github.com/tzuchia/backtest/date"
	"github.com/tzuchia/backtest/renderer"
	"github.com/tzuchia/backtest/twse"
	"github.com/tzuchia/backtest/yahoo"
)

// Register the subcommands.
// A main package calls Register() to declare the subcommands, then Execute()
// on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fetchCmd{}, "market data")
	c.Register(&importCmd{}, "market data")
	c.Register(&exportCmd{}, "market data")

	c.Register(&compareCmd{}, "reports")
	c.Register(&projectCmd{}, "reports")
	c.Register(&chartCmd{}, "reports")
	c.Register(&seriesCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// EnvData overrides the default market database folder.
const EnvData = "TWB_DATA"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storePath = flag.String("d", defaultStorePath(), "Path to the market data folder")
var pretty = flag.Bool("pretty", false, "Force terminal markdown rendering even when output is piped")

func defaultStorePath() string {
	if p := os.Getenv(EnvData); p != "" {
		return p
	}
	return ".twbdata"
}

// DecodeStore loads the local market database from the -d folder. A missing
// folder is an empty database.
func DecodeStore() (*backtest.MarketData, error) {
	m, err := backtest.DecodeMarketData(*storePath)
	if err != nil {
		return nil, fmt.Errorf("could not load market database %q: %w", *storePath, err)
	}
	return m, nil
}

// EncodeStore persists the market database back into the -d folder.
func EncodeStore(m *backtest.MarketData) error {
	return backtest.EncodeMarketData(*storePath, m)
}

// sourceFor returns the price source a command reads from: the local store
// for offline runs, or one of the live providers.
func sourceFor(name string) (backtest.Source, error) {
	switch name {
	case "store":
		return DecodeStore()
	case "twse":
		return twse.NewClient(), nil
	case "yahoo":
		return yahoo.NewClient(), nil
	default:
		return nil, fmt.Errorf("unknown source %q, want store, twse or yahoo", name)
	}
}

// rangeOf parses the -from and -to flags into a range. to defaults to today,
// from to defaultMonths before to.
func rangeOf(from, to string, defaultMonths int) (date.Range, error) {
	end := date.Today()
	if to != "" {
		var err error
		end, err = date.Parse(to)
		if err != nil {
			return date.Range{}, fmt.Errorf("parsing -to: %w", err)
		}
	}
	start := end.AddMonth(-defaultMonths)
	if from != "" {
		var err error
		start, err = date.Parse(from)
		if err != nil {
			return date.Range{}, fmt.Errorf("parsing -from: %w", err)
		}
	}
	return date.Range{From: start, To: end}, nil
}

// printMarkdown renders a markdown document on stdout. Piped output stays
// plain markdown unless -pretty forces terminal rendering.
func printMarkdown(doc string) {
	if !*pretty {
		if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
			fmt.Println(doc)
			return
		}
	}
	out, err := glamour.Render(doc, "auto")
	if err != nil {
		fmt.Println(doc)
		return
	}
	fmt.Print(out)
}

// printWarnings reports dropped symbols on stderr, nothing when there is
// nothing to report.
func printWarnings(warnings []backtest.Warning) {
	renderer.ConditionalBlock(os.Stderr, func(w io.Writer) bool {
		for _, warning := range warnings {
			fmt.Fprintf(w, "Warning: %s\n", warning)
		}
		return len(warnings) > 0
	})
}
