package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"trade-journal-go/internal/journal"

	"github.com/google/subcommands"
)

type listCmd struct {
	tradeType string
	status    string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list trades, most recent first" }
func (*listCmd) Usage() string {
	return `list [-type ALL|BSJP|SWING|SCALPING] [-status OPEN|CLOSED]

  Prints the journal as a table, newest entry first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tradeType, "type", journal.AllTypes, "Strategy to show")
	f.StringVar(&c.status, "status", "", "Only show trades with this status")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := journal.ParseTradeFilter(c.tradeType, c.status)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	b, err := openBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	trades, err := b.List(ctx, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing trades: %v\n", err)
		return subcommands.ExitFailure
	}

	if len(trades) == 0 {
		fmt.Fprintln(stdout, "No trades.")
		return subcommands.ExitSuccess
	}
	if err := printTrades(stdout, trades); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
