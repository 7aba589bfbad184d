package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/tzuchia/backtest/docs"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "print a documentation topic" }
func (*topicCmd) Usage() string {
	return `twb topic [<name>...]

  Prints the named documentation topics. Without arguments it prints the
  readme, and '*' expands to every topic.

Usage Examples:
# How symbols are written.
$ twb topic symbols

# The whole manual at once.
$ twb topic '*'

`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading topic: %v\n", err)
		if all, lerr := docs.GetAllTopics(); lerr == nil {
			fmt.Fprintf(os.Stderr, "Available topics: %s\n", strings.Join(all, ", "))
		}
		return subcommands.ExitFailure
	}

	printMarkdown(doc)
	return subcommands.ExitSuccess
}
