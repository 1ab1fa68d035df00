package journal

import (
	"strings"

	"trade-journal-go/internal/models"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for buy and sell dates.
const DateLayout = "2006-01-02"

// ComputeStats aggregates trades in a single pass. today is compared
// verbatim against sell dates.
func ComputeStats(trades []models.Trade, today string) models.TradeStats {
	stats := models.TradeStats{
		TotalPnL:    decimal.Zero,
		TodayPnL:    decimal.Zero,
		TotalTrades: len(trades),
	}

	var wins, realized int
	for _, t := range trades {
		if t.Status == models.StatusOpen {
			stats.OpenTrades++
		}

		pnl, ok := t.PnL()
		if !ok {
			continue
		}
		realized++
		stats.TotalPnL = stats.TotalPnL.Add(pnl)
		if t.SellDate == today {
			stats.TodayPnL = stats.TodayPnL.Add(pnl)
		}
		if pnl.IsPositive() {
			wins++
		}
	}

	if realized > 0 {
		stats.WinRate = float64(wins) / float64(realized) * 100
	}
	return stats
}

// Summary is the dashboard view of the journal.
type Summary struct {
	Stats      models.TradeStats `json:"stats"`
	OpenTrades []models.Trade    `json:"openTrades"`
}

// AllTypes selects every strategy type in a TradeFilter.
const AllTypes = "ALL"

// TradeFilter narrows a trade list. Zero values match everything.
type TradeFilter struct {
	Type   models.TradeType
	Status models.TradeStatus
}

// ParseTradeFilter builds a filter from query-style values.
// An empty type or "ALL" matches every strategy.
func ParseTradeFilter(tradeType, status string) (TradeFilter, error) {
	var f TradeFilter
	if tradeType != "" && !strings.EqualFold(tradeType, AllTypes) {
		t, err := models.ParseTradeType(tradeType)
		if err != nil {
			return f, err
		}
		f.Type = t
	}
	if status != "" {
		st, err := models.ParseTradeStatus(status)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	return f, nil
}

// Match reports whether t passes the filter.
func (f TradeFilter) Match(t models.Trade) bool {
	if f.Type != "" && f.Type != AllTypes && t.Type != f.Type {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// Apply returns the matching trades in their original order.
func (f TradeFilter) Apply(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
