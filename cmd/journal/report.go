package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"trade-journal-go/internal/journal"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type statsCmd struct{}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "print journal statistics" }
func (*statsCmd) Usage() string {
	return "stats\n\n  Prints total and today's PnL, win rate and trade counts.\n"
}
func (*statsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	stats, err := b.Stats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing stats: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printStats(stdout, stats); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	raw   bool
	style string
	width int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "render the journal dashboard" }
func (*summaryCmd) Usage() string {
	return `summary [-raw] [-style dark|light|notty] [-width 100]

  Renders statistics and open positions as Markdown.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print the Markdown source instead of rendering it")
	f.StringVar(&c.style, "style", "", "Glamour style (detected from the terminal when empty)")
	f.IntVar(&c.width, "width", 100, "Word wrap width")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	summary, err := b.Summary(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building summary: %v\n", err)
		return subcommands.ExitFailure
	}

	md := summaryMarkdown(summary, b.Today())
	if c.raw {
		fmt.Fprint(stdout, md)
		return subcommands.ExitSuccess
	}
	out, err := renderMarkdown(md, c.style, c.width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering summary: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(stdout, out)
	return subcommands.ExitSuccess
}

type previewCmd struct {
	buyPrice  string
	sellPrice string
	qty       int
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "compute invested capital and estimated PnL" }
func (*previewCmd) Usage() string {
	return `preview -buy-price <price> -qty <lots> [-sell-price <price>]

  Shows what a trade would cost and earn without recording it.
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.buyPrice, "buy-price", "", "Entry price per share")
	f.StringVar(&c.sellPrice, "sell-price", "", "Exit price per share")
	f.IntVar(&c.qty, "qty", 0, "Quantity in lots of 100 shares")
}

func (c *previewCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	buy, err := parseDecimal("buy-price", c.buyPrice)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	sell, err := parseDecimal("sell-price", c.sellPrice)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if buy == nil {
		fmt.Fprintln(os.Stderr, "Error: -buy-price is required.")
		return subcommands.ExitUsageError
	}

	sellPrice := decimal.Zero
	if sell != nil {
		sellPrice = *sell
	}
	p := journal.Preview(*buy, sellPrice, c.qty)

	tw := newTable(stdout)
	fmt.Fprintf(tw, "Total invested:\t%s\n", formatIDR(p.TotalInvested))
	fmt.Fprintf(tw, "Estimated PnL:\t%s\n", formatPnL(p.EstimatedPnL))
	if err := tw.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
