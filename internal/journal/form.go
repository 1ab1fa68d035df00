package journal

import (
	"fmt"
	"strings"
	"time"

	"trade-journal-go/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

// TradeForm is the create/edit form. Numbers are not range checked;
// negative prices and quantities are accepted as entered.
type TradeForm struct {
	Code      string             `json:"code" binding:"required"`
	Type      models.TradeType   `json:"type" binding:"required,oneof=BSJP SWING SCALPING"`
	Status    models.TradeStatus `json:"status" binding:"required,oneof=OPEN CLOSED"`
	BuyDate   string             `json:"buyDate" binding:"required,datetime=2006-01-02"`
	BuyPrice  *decimal.Decimal   `json:"buyPrice" binding:"required"`
	Qty       *int               `json:"qty" binding:"required"`
	SellDate  string             `json:"sellDate" binding:"required_if=Status CLOSED"`
	SellPrice *decimal.Decimal   `json:"sellPrice" binding:"required_if=Status CLOSED"`
	Fees      *decimal.Decimal   `json:"fees,omitempty"`
	Notes     string             `json:"notes"`
}

// NewTradeForm returns a blank form with the defaults a new entry starts from.
func NewTradeForm(today string) TradeForm {
	return TradeForm{
		Type:     models.TradeTypeBSJP,
		Status:   models.StatusOpen,
		BuyDate:  today,
		SellDate: today,
	}
}

// FormFromTrade prefills a form for editing t.
func FormFromTrade(t models.Trade, today string) TradeForm {
	buy := t.BuyPrice
	qty := t.Qty
	f := TradeForm{
		Code:      t.Code,
		Type:      t.Type,
		Status:    t.Status,
		BuyDate:   t.BuyDate,
		BuyPrice:  &buy,
		Qty:       &qty,
		SellDate:  t.SellDate,
		SellPrice: t.SellPrice,
		Fees:      t.Fees,
		Notes:     t.Notes,
	}
	if f.SellDate == "" {
		f.SellDate = today
	}
	return f
}

// Validate checks required fields and date formats.
func (f *TradeForm) Validate() error {
	if err := binding.Validator.ValidateStruct(f); err != nil {
		return err
	}
	if f.Status == models.StatusClosed {
		if _, err := time.Parse(DateLayout, f.SellDate); err != nil {
			return fmt.Errorf("invalid sell date %q: expected YYYY-MM-DD", f.SellDate)
		}
	}
	return nil
}

// Trade converts the form into a new trade. The stock code is upper-cased and
// sell fields are only kept for closed trades.
func (f TradeForm) Trade() models.Trade {
	t := models.Trade{
		Code:    strings.ToUpper(strings.TrimSpace(f.Code)),
		Type:    f.Type,
		Status:  f.Status,
		BuyDate: f.BuyDate,
		Fees:    f.Fees,
		Notes:   f.Notes,
	}
	if f.BuyPrice != nil {
		t.BuyPrice = *f.BuyPrice
	}
	if f.Qty != nil {
		t.Qty = *f.Qty
	}
	if f.Status == models.StatusClosed {
		t.SellDate = f.SellDate
		t.SellPrice = f.SellPrice
	}
	return t
}

// Update converts the form into a full update of an existing trade.
// Saving an open trade clears any sell fields left from a previous close.
func (f TradeForm) Update() models.TradeUpdate {
	t := f.Trade()
	u := models.TradeUpdate{
		Code:     &t.Code,
		Type:     &t.Type,
		Status:   &t.Status,
		BuyDate:  &t.BuyDate,
		BuyPrice: &t.BuyPrice,
		Qty:      &t.Qty,
		Fees:     t.Fees,
		Notes:    &t.Notes,
	}
	if t.Status == models.StatusClosed {
		u.SellDate = &t.SellDate
		u.SellPrice = t.SellPrice
	} else {
		u.ClearSell = true
	}
	return u
}

// FormPreview is the live calculation shown while a form is filled in.
type FormPreview struct {
	TotalInvested decimal.Decimal `json:"totalInvested"`
	EstimatedPnL  decimal.Decimal `json:"estimatedPnL"`
}

// Preview computes the invested capital and, once both sides are known,
// the estimated PnL.
func Preview(buyPrice, sellPrice decimal.Decimal, qty int) FormPreview {
	invested := models.Value(buyPrice, qty)
	current := models.Value(sellPrice, qty)

	p := FormPreview{TotalInvested: invested, EstimatedPnL: decimal.Zero}
	if !current.IsZero() && !invested.IsZero() {
		p.EstimatedPnL = current.Sub(invested)
	}
	return p
}
