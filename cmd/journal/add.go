package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"trade-journal-go/internal/journal"

	"github.com/google/subcommands"
)

type addCmd struct {
	tradeFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new trade" }
func (*addCmd) Usage() string {
	return `add -code <code> -buy-price <price> -qty <lots> [-type BSJP] [-status OPEN] [-buy-date today]
    [-sell-date today -sell-price <price>] [-fees <amount>] [-notes <text>]

  Records a new trade. The code is upper-cased. Closed trades need a sell
  price; the sell date defaults to today.
`
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}

	form := journal.NewTradeForm(b.Today())
	if err := c.apply(f, &form); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if err := form.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid trade: %v\n", err)
		return subcommands.ExitUsageError
	}

	t, err := b.Add(ctx, form)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving trade: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added %s %s (%s)\n", t.Code, t.Status, t.ID)
	return subcommands.ExitSuccess
}
