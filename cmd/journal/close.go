package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"github.com/google/subcommands"
)

type closeCmd struct {
	sellPrice string
	sellDate  string
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close an open trade" }
func (*closeCmd) Usage() string {
	return `close -sell-price <price> [-sell-date today] <id>

  Marks the trade CLOSED with the given exit. Other fields are untouched.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sellPrice, "sell-price", "", "Exit price per share (required)")
	f.StringVar(&c.sellDate, "sell-date", "", "Exit date, YYYY-MM-DD (default today)")
}

func (c *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, ok := singleID(f, c.Name())
	if !ok {
		return subcommands.ExitUsageError
	}
	price, err := parseDecimal("sell-price", c.sellPrice)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if price == nil {
		fmt.Fprintln(os.Stderr, "Error: -sell-price is required.")
		return subcommands.ExitUsageError
	}

	b, err := openBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}

	date := c.sellDate
	if date == "" {
		date = b.Today()
	}
	if _, err := time.Parse(journal.DateLayout, date); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -sell-date %q: expected YYYY-MM-DD\n", date)
		return subcommands.ExitUsageError
	}

	status := models.StatusClosed
	t, err := b.Update(ctx, id, models.TradeUpdate{Status: &status, SellDate: &date, SellPrice: price})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Closed %s on %s, PnL %s\n", t.Code, t.SellDate, formatTradePnL(t))
	return subcommands.ExitSuccess
}
