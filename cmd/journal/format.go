package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

const currencyCode = "IDR"

// formatIDR renders an amount in rupiah using the currency's own grouping.
func formatIDR(d decimal.Decimal) string {
	cur := money.GetCurrency(currencyCode)
	return cur.Formatter().Format(d.Shift(int32(cur.Fraction)).Round(0).IntPart())
}

// formatPnL is formatIDR with an explicit sign for gains.
func formatPnL(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + formatIDR(d)
	}
	return formatIDR(d)
}

func formatReturn(t models.Trade) string {
	r, ok := t.ReturnPercent()
	if !ok {
		return "-"
	}
	return r.StringFixed(2) + "%"
}

func formatTradePnL(t models.Trade) string {
	pnl, ok := t.PnL()
	if !ok {
		return "-"
	}
	return formatPnL(pnl)
}

func formatWinRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printTrades writes trades as an aligned table, one row per trade.
func printTrades(w io.Writer, trades []models.Trade) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCODE\tTYPE\tSTATUS\tBUY DATE\tBUY\tQTY\tSELL DATE\tSELL\tPNL\tRETURN")
	for _, t := range trades {
		sell := "-"
		if t.SellPrice != nil {
			sell = formatIDR(*t.SellPrice)
		}
		sellDate := t.SellDate
		if sellDate == "" {
			sellDate = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.Code, t.Type, t.Status, t.BuyDate, formatIDR(t.BuyPrice), t.Qty,
			sellDate, sell, formatTradePnL(t), formatReturn(t))
	}
	return tw.Flush()
}

// printTrade writes every field of a single trade.
func printTrade(w io.Writer, t models.Trade) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Code:\t%s\n", t.Code)
	fmt.Fprintf(tw, "Type:\t%s\n", t.Type)
	fmt.Fprintf(tw, "Status:\t%s\n", t.Status)
	fmt.Fprintf(tw, "Bought:\t%s @ %s x %d lot\n", t.BuyDate, formatIDR(t.BuyPrice), t.Qty)
	fmt.Fprintf(tw, "Invested:\t%s\n", formatIDR(t.Invested()))
	if t.SellPrice != nil {
		fmt.Fprintf(tw, "Sold:\t%s @ %s\n", t.SellDate, formatIDR(*t.SellPrice))
	}
	if t.Fees != nil {
		fmt.Fprintf(tw, "Fees:\t%s\n", formatIDR(*t.Fees))
	}
	fmt.Fprintf(tw, "PnL:\t%s\n", formatTradePnL(t))
	fmt.Fprintf(tw, "Return:\t%s\n", formatReturn(t))
	if t.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", t.Notes)
	}
	return tw.Flush()
}

func printStats(w io.Writer, s models.TradeStats) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total PnL:\t%s\n", formatPnL(s.TotalPnL))
	fmt.Fprintf(tw, "Today PnL:\t%s\n", formatPnL(s.TodayPnL))
	fmt.Fprintf(tw, "Win rate:\t%s\n", formatWinRate(s.WinRate))
	fmt.Fprintf(tw, "Open trades:\t%d\n", s.OpenTrades)
	fmt.Fprintf(tw, "Total trades:\t%d\n", s.TotalTrades)
	return tw.Flush()
}

// summaryMarkdown lays out the dashboard as a Markdown document.
func summaryMarkdown(s journal.Summary, today string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trade journal, %s\n\n", today)

	b.WriteString("| Total PnL | Today PnL | Win rate | Open | Total |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %d | %d |\n\n",
		formatPnL(s.Stats.TotalPnL), formatPnL(s.Stats.TodayPnL), formatWinRate(s.Stats.WinRate),
		s.Stats.OpenTrades, s.Stats.TotalTrades)

	b.WriteString("## Open positions\n\n")
	if len(s.OpenTrades) == 0 {
		b.WriteString("_No open positions._\n")
		return b.String()
	}
	b.WriteString("| Code | Type | Bought | Price | Lots | Invested |\n")
	b.WriteString("|---|---|---|---:|---:|---:|\n")
	for _, t := range s.OpenTrades {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s |\n",
			t.Code, t.Type, t.BuyDate, formatIDR(t.BuyPrice), t.Qty, formatIDR(t.Invested()))
	}
	return b.String()
}

// renderMarkdown styles md for the terminal. An empty style picks one from
// the terminal background.
func renderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
