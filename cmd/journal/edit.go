package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"trade-journal-go/internal/journal"

	"github.com/google/subcommands"
)

type editCmd struct {
	tradeFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit an existing trade" }
func (*editCmd) Usage() string {
	return `edit [-code ...] [-type ...] [-status ...] [-buy-date ...] [-buy-price ...] [-qty ...]
    [-sell-date ...] [-sell-price ...] [-fees ...] [-notes ...] <id>

  Opens the trade as a form, changes the given fields and saves it.
  Setting -status OPEN drops the sell date and price.
`
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, ok := singleID(f, c.Name())
	if !ok {
		return subcommands.ExitUsageError
	}

	b, err := openBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	current, err := b.Get(ctx, id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	form := journal.FormFromTrade(current, b.Today())
	if err := c.apply(f, &form); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if err := form.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid trade: %v\n", err)
		return subcommands.ExitUsageError
	}

	t, err := b.Edit(ctx, id, form)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving trade: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Updated %s %s (%s)\n", t.Code, t.Status, t.ID)
	return subcommands.ExitSuccess
}
