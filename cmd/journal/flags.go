package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"github.com/shopspring/decimal"
)

// tradeFlags are the form fields shared by add and edit.
type tradeFlags struct {
	code      string
	tradeType string
	status    string
	buyDate   string
	buyPrice  string
	qty       int
	sellDate  string
	sellPrice string
	fees      string
	notes     string
}

func (tf *tradeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&tf.code, "code", "", "Stock code, e.g. BBCA")
	f.StringVar(&tf.tradeType, "type", "", "Strategy: BSJP, SWING or SCALPING")
	f.StringVar(&tf.status, "status", "", "OPEN or CLOSED")
	f.StringVar(&tf.buyDate, "buy-date", "", "Entry date, YYYY-MM-DD")
	f.StringVar(&tf.buyPrice, "buy-price", "", "Entry price per share")
	f.IntVar(&tf.qty, "qty", 0, "Quantity in lots of 100 shares")
	f.StringVar(&tf.sellDate, "sell-date", "", "Exit date, YYYY-MM-DD (closed trades)")
	f.StringVar(&tf.sellPrice, "sell-price", "", "Exit price per share (closed trades)")
	f.StringVar(&tf.fees, "fees", "", "Fees paid, empty to clear")
	f.StringVar(&tf.notes, "notes", "", "Free-form notes")
}

// apply copies every flag given on the command line into form. Flags left
// out keep the form's current value.
func (tf *tradeFlags) apply(f *flag.FlagSet, form *journal.TradeForm) error {
	var err error
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "code":
			form.Code = tf.code
		case "type":
			form.Type, err = models.ParseTradeType(tf.tradeType)
		case "status":
			form.Status, err = models.ParseTradeStatus(tf.status)
		case "buy-date":
			form.BuyDate = tf.buyDate
		case "buy-price":
			form.BuyPrice, err = parseDecimal(fl.Name, tf.buyPrice)
		case "qty":
			qty := tf.qty
			form.Qty = &qty
		case "sell-date":
			form.SellDate = tf.sellDate
		case "sell-price":
			form.SellPrice, err = parseDecimal(fl.Name, tf.sellPrice)
		case "fees":
			form.Fees, err = parseDecimal(fl.Name, tf.fees)
		case "notes":
			form.Notes = tf.notes
		}
	})
	return err
}

// parseDecimal parses an optional amount; empty input yields nil.
func parseDecimal(name, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s %q: %w", name, s, err)
	}
	return &d, nil
}

// singleID returns the only positional argument, or reports a usage error.
func singleID(f *flag.FlagSet, cmd string) (string, bool) {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: %s expects exactly one trade id.\n", cmd)
		return "", false
	}
	return f.Arg(0), true
}
