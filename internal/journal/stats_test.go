package journal

import (
	"testing"

	"trade-journal-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedTrade(buy, sell string, qty int, sellDate string) models.Trade {
	return models.Trade{
		Code:      "TEST",
		Type:      models.TradeTypeSwing,
		Status:    models.StatusClosed,
		BuyDate:   "2024-01-01",
		BuyPrice:  dec(buy),
		SellPrice: decPtr(sell),
		SellDate:  sellDate,
		Qty:       qty,
	}
}

func TestComputeStats(t *testing.T) {
	const today = "2024-05-17"

	t.Run("Empty", func(t *testing.T) {
		stats := ComputeStats(nil, today)
		assert.True(t, stats.TotalPnL.IsZero())
		assert.True(t, stats.TodayPnL.IsZero())
		assert.Equal(t, 0.0, stats.WinRate)
		assert.Equal(t, 0, stats.OpenTrades)
		assert.Equal(t, 0, stats.TotalTrades)
	})

	t.Run("SingleClosedWinner", func(t *testing.T) {
		stats := ComputeStats([]models.Trade{closedTrade("100", "120", 2, "2024-05-01")}, today)
		assert.True(t, dec("4000").Equal(stats.TotalPnL), "got %s", stats.TotalPnL)
		assert.True(t, stats.TodayPnL.IsZero())
		assert.Equal(t, 100.0, stats.WinRate)
		assert.Equal(t, 1, stats.TotalTrades)
	})

	t.Run("SingleOpenTrade", func(t *testing.T) {
		open := models.Trade{Status: models.StatusOpen, BuyPrice: dec("100"), Qty: 2}
		stats := ComputeStats([]models.Trade{open}, today)
		assert.Equal(t, 1, stats.OpenTrades)
		assert.True(t, stats.TotalPnL.IsZero())
		// no closed trades means a zero win rate, not NaN
		assert.Equal(t, 0.0, stats.WinRate)
	})

	t.Run("OpenTradeWithSellFieldsIsIgnored", func(t *testing.T) {
		open := closedTrade("100", "300", 1, today)
		open.Status = models.StatusOpen
		stats := ComputeStats([]models.Trade{open}, today)
		assert.True(t, stats.TotalPnL.IsZero())
		assert.True(t, stats.TodayPnL.IsZero())
	})

	t.Run("Mixed", func(t *testing.T) {
		trades := []models.Trade{
			closedTrade("100", "120", 2, today),          // +4000 today
			closedTrade("500", "450", 1, today),          // -5000 today
			closedTrade("1000", "1010", 3, "2024-05-16"), // +3000
			closedTrade("200", "200", 1, "2024-05-16"),   // flat, not a win
			{Status: models.StatusOpen, BuyPrice: dec("50"), Qty: 10},
			{Status: models.StatusClosed, BuyPrice: dec("50"), Qty: 10}, // no sell price
		}
		stats := ComputeStats(trades, today)
		assert.True(t, dec("2000").Equal(stats.TotalPnL), "got %s", stats.TotalPnL)
		assert.True(t, dec("-1000").Equal(stats.TodayPnL), "got %s", stats.TodayPnL)
		assert.Equal(t, 50.0, stats.WinRate)
		assert.Equal(t, 1, stats.OpenTrades)
		assert.Equal(t, 6, stats.TotalTrades)
	})
}

func TestParseTradeFilter(t *testing.T) {
	f, err := ParseTradeFilter("", "")
	require.NoError(t, err)
	assert.Equal(t, TradeFilter{}, f)

	f, err = ParseTradeFilter("all", "")
	require.NoError(t, err)
	assert.Equal(t, TradeFilter{}, f)

	f, err = ParseTradeFilter("scalping", "open")
	require.NoError(t, err)
	assert.Equal(t, TradeFilter{Type: models.TradeTypeScalping, Status: models.StatusOpen}, f)

	_, err = ParseTradeFilter("POSITION", "")
	assert.Error(t, err)

	_, err = ParseTradeFilter("", "HALF")
	assert.Error(t, err)
}

func TestTradeFilter_Apply(t *testing.T) {
	trades := []models.Trade{
		{ID: "1", Type: models.TradeTypeBSJP, Status: models.StatusOpen},
		{ID: "2", Type: models.TradeTypeSwing, Status: models.StatusClosed},
		{ID: "3", Type: models.TradeTypeSwing, Status: models.StatusOpen},
		{ID: "4", Type: models.TradeTypeScalping, Status: models.StatusClosed},
	}

	ids := func(ts []models.Trade) []string {
		out := []string{}
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, []string{"2", "3"}, ids(TradeFilter{Type: models.TradeTypeSwing}.Apply(trades)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(TradeFilter{Type: AllTypes}.Apply(trades)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(TradeFilter{}.Apply(trades)))
	assert.Equal(t, []string{"3"}, ids(TradeFilter{Type: models.TradeTypeSwing, Status: models.StatusOpen}.Apply(trades)))
	assert.Empty(t, TradeFilter{Type: models.TradeTypeBSJP, Status: models.StatusClosed}.Apply(trades))
}
