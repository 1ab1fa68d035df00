package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LotSize is the number of shares in one lot. Quantities are recorded in lots.
const LotSize = 100

var lotMultiplier = decimal.NewFromInt(LotSize)

// Prices are written as JSON numbers so a persisted journal keeps the layout
// browser exports use. Quoted values are still accepted on read.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TradeType is the strategy label a trade was taken under.
type TradeType string

const (
	TradeTypeBSJP     TradeType = "BSJP"
	TradeTypeSwing    TradeType = "SWING"
	TradeTypeScalping TradeType = "SCALPING"
)

// TradeTypes lists every strategy label in display order.
var TradeTypes = []TradeType{TradeTypeBSJP, TradeTypeSwing, TradeTypeScalping}

// ParseTradeType parses a strategy label, ignoring case.
func ParseTradeType(s string) (TradeType, error) {
	t := TradeType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range TradeTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown trade type %q", s)
}

// TradeStatus tells whether a position is still held.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "OPEN"
	StatusClosed TradeStatus = "CLOSED"
)

// ParseTradeStatus parses a status, ignoring case.
func ParseTradeStatus(s string) (TradeStatus, error) {
	switch st := TradeStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusOpen, StatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown trade status %q", s)
}

// Trade is a single journaled position.
// The JSON layout is the persisted layout; keep the keys stable.
type Trade struct {
	ID        string           `json:"id"`
	Code      string           `json:"code"`
	Type      TradeType        `json:"type"`
	Status    TradeStatus      `json:"status"`
	BuyDate   string           `json:"buyDate"`
	BuyPrice  decimal.Decimal  `json:"buyPrice"`
	Qty       int              `json:"qty"` // lots
	SellDate  string           `json:"sellDate,omitempty"`
	SellPrice *decimal.Decimal `json:"sellPrice,omitempty"`
	Fees      *decimal.Decimal `json:"fees,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// Realized reports whether the trade counts towards realized PnL:
// it must be closed with a non-zero sell price.
func (t Trade) Realized() bool {
	return t.Status == StatusClosed && t.SellPrice != nil && !t.SellPrice.IsZero()
}

// PnL returns the realized profit or loss of the trade.
func (t Trade) PnL() (decimal.Decimal, bool) {
	if !t.Realized() {
		return decimal.Zero, false
	}
	return t.SellPrice.Sub(t.BuyPrice).Mul(decimal.NewFromInt(int64(t.Qty))).Mul(lotMultiplier), true
}

// ReturnPercent returns the price move of a realized trade as a percentage of the buy price.
func (t Trade) ReturnPercent() (decimal.Decimal, bool) {
	if !t.Realized() || t.BuyPrice.IsZero() {
		return decimal.Zero, false
	}
	return t.SellPrice.Sub(t.BuyPrice).Div(t.BuyPrice).Mul(decimal.NewFromInt(100)), true
}

// Invested returns the capital committed at the buy price.
func (t Trade) Invested() decimal.Decimal {
	return Value(t.BuyPrice, t.Qty)
}

// Value returns the worth of qty lots at the given price.
func Value(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty))).Mul(lotMultiplier)
}

// TradeUpdate holds a partial set of fields to merge into a trade.
// Nil fields are left untouched.
type TradeUpdate struct {
	Code      *string          `json:"code,omitempty"`
	Type      *TradeType       `json:"type,omitempty" binding:"omitempty,oneof=BSJP SWING SCALPING"`
	Status    *TradeStatus     `json:"status,omitempty" binding:"omitempty,oneof=OPEN CLOSED"`
	BuyDate   *string          `json:"buyDate,omitempty"`
	BuyPrice  *decimal.Decimal `json:"buyPrice,omitempty"`
	Qty       *int             `json:"qty,omitempty"`
	SellDate  *string          `json:"sellDate,omitempty"`
	SellPrice *decimal.Decimal `json:"sellPrice,omitempty"`
	Fees      *decimal.Decimal `json:"fees,omitempty"`
	Notes     *string          `json:"notes,omitempty"`

	// ClearSell drops the sell date and price before the other fields are merged.
	ClearSell bool `json:"clearSell,omitempty"`
}

// Apply returns a copy of t with the update merged in. The ID never changes.
func (u TradeUpdate) Apply(t Trade) Trade {
	if u.ClearSell {
		t.SellDate = ""
		t.SellPrice = nil
	}
	if u.Code != nil {
		t.Code = *u.Code
	}
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.BuyDate != nil {
		t.BuyDate = *u.BuyDate
	}
	if u.BuyPrice != nil {
		t.BuyPrice = *u.BuyPrice
	}
	if u.Qty != nil {
		t.Qty = *u.Qty
	}
	if u.SellDate != nil {
		t.SellDate = *u.SellDate
	}
	if u.SellPrice != nil {
		p := *u.SellPrice
		t.SellPrice = &p
	}
	if u.Fees != nil {
		f := *u.Fees
		t.Fees = &f
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	return t
}

// TradeStats holds aggregate metrics derived from the whole journal.
type TradeStats struct {
	TotalPnL    decimal.Decimal `json:"totalPnL"`
	TodayPnL    decimal.Decimal `json:"todayPnL"`
	WinRate     float64         `json:"winRate"` // percent of realized trades with positive PnL
	OpenTrades  int             `json:"openTrades"`
	TotalTrades int             `json:"totalTrades"`
}
