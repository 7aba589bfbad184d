// Command twb backtests baskets of Taiwan listings from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/tzuchia/backtest/cmd"
	"github.com/tzuchia/backtest/docs"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// Shell completion hijacks the process when COMP_LINE is set, so it must
	// run before flag.Parse.
	completion().Complete("twb")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion declares the completion tree, one entry per subcommand.
func completion() *complete.Command {
	dates := predict.Something
	symbols := predict.Something
	sources := predict.Set{"store", "twse", "yahoo"}

	comparison := map[string]complete.Predictor{
		"basket":    symbols,
		"benchmark": symbols,
		"from":      dates,
		"to":        dates,
		"source":    sources,
	}
	chart := map[string]complete.Predictor{"o": predict.Files("*.png")}
	compare := map[string]complete.Predictor{"png": predict.Files("*.png")}
	for k, v := range comparison {
		chart[k] = v
		compare[k] = v
	}

	topics, _ := docs.GetAllTopics()
	topics = append(topics, "readme", "*")

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"d":      predict.Dirs("*"),
			"pretty": predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"fetch": {Flags: map[string]complete.Predictor{
				"s":      symbols,
				"from":   dates,
				"to":     dates,
				"source": predict.Set{"twse", "yahoo"},
			}},
			"import": {Flags: map[string]complete.Predictor{
				"csv": predict.Files("*.csv"),
				"s":   symbols,
			}, Args: predict.Files("*.jsonl")},
			"export": {Flags: map[string]complete.Predictor{
				"s":   symbols,
				"csv": predict.Nothing,
				"o":   predict.Files("*"),
			}},
			"series": {Flags: map[string]complete.Predictor{
				"s":       symbols,
				"from":    dates,
				"to":      dates,
				"returns": predict.Nothing,
				"format":  predict.Set{"records", "csv"},
				"source":  sources,
			}},
			"compare": {Flags: compare},
			"chart":   {Flags: chart},
			"project": {Flags: map[string]complete.Predictor{
				"initial":      predict.Something,
				"contribution": predict.Something,
				"rate":         predict.Something,
				"ppy":          predict.Something,
				"periods":      predict.Something,
				"start":        dates,
				"like":         symbols,
				"from":         dates,
				"to":           dates,
				"source":       sources,
				"c":            predict.Set{"TWD", "USD"},
				"png":          predict.Files("*.png"),
			}},
			"topic":  {Args: predict.Set(topics)},
			"assist": {Args: predict.Something},
		},
	}
}
