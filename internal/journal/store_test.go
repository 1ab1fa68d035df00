package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSlot is a mock implementation of storage.Slot.
type MockSlot struct {
	mock.Mock
}

func (m *MockSlot) Read(key string) ([]byte, error) {
	args := m.Called(key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockSlot) Write(key string, value []byte) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// sequentialIDs returns an ID generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var fixedNow = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

// setupStore creates a store over an in-memory slot with deterministic IDs and clock.
func setupStore(t *testing.T) (*Store, *storage.MemorySlot) {
	slot := storage.NewMemorySlot()
	store, err := Open(slot,
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return store, slot
}

func openTrade(code string, tradeType models.TradeType) models.Trade {
	return models.Trade{
		Code:     code,
		Type:     tradeType,
		Status:   models.StatusOpen,
		BuyDate:  "2024-05-01",
		BuyPrice: dec("1000"),
		Qty:      1,
	}
}

func TestStore_AddPrependsAndAssignsID(t *testing.T) {
	store, _ := setupStore(t)

	first, err := store.Add(openTrade("BBRI", models.TradeTypeSwing))
	require.NoError(t, err)
	second, err := store.Add(openTrade("TLKM", models.TradeTypeBSJP))
	require.NoError(t, err)

	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "id-2", second.ID)

	trades := store.List()
	require.Len(t, trades, 2)
	assert.Equal(t, "TLKM", trades[0].Code)
	assert.Equal(t, "BBRI", trades[1].Code)
}

func TestStore_AddIgnoresIncomingID(t *testing.T) {
	store, _ := setupStore(t)

	in := openTrade("ASII", models.TradeTypeScalping)
	in.ID = "caller-chosen"
	added, err := store.Add(in)
	require.NoError(t, err)

	assert.Equal(t, "id-1", added.ID)
	_, found := store.Get("caller-chosen")
	assert.False(t, found)
}

func TestStore_DefaultIDsAreUnique(t *testing.T) {
	store, err := Open(storage.NewMemorySlot())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tr, err := store.Add(openTrade("BBCA", models.TradeTypeSwing))
		require.NoError(t, err)
		assert.NotEmpty(t, tr.ID)
		assert.False(t, seen[tr.ID], "duplicate id %s", tr.ID)
		seen[tr.ID] = true
	}
}

func TestStore_Get(t *testing.T) {
	store, _ := setupStore(t)
	added, err := store.Add(openTrade("BMRI", models.TradeTypeSwing))
	require.NoError(t, err)

	got, found := store.Get(added.ID)
	assert.True(t, found)
	assert.Equal(t, added, got)

	_, found = store.Get("missing")
	assert.False(t, found)
}

func TestStore_UpdateMergesFields(t *testing.T) {
	store, _ := setupStore(t)
	added, err := store.Add(openTrade("ANTM", models.TradeTypeSwing))
	require.NoError(t, err)

	closed := models.StatusClosed
	sellDate := "2024-05-17"
	updated, found, err := store.Update(added.ID, models.TradeUpdate{
		Status:    &closed,
		SellPrice: decPtr("1200"),
		SellDate:  &sellDate,
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.StatusClosed, updated.Status)

	got, found := store.Get(added.ID)
	require.True(t, found)
	assert.Equal(t, models.StatusClosed, got.Status)
	assert.Equal(t, "2024-05-17", got.SellDate)
	require.NotNil(t, got.SellPrice)
	assert.True(t, dec("1200").Equal(*got.SellPrice))
	// unspecified fields are unchanged
	assert.Equal(t, "ANTM", got.Code)
	assert.Equal(t, models.TradeTypeSwing, got.Type)
	assert.Equal(t, "2024-05-01", got.BuyDate)
	assert.True(t, dec("1000").Equal(got.BuyPrice))
	assert.Equal(t, 1, got.Qty)
}

func TestStore_UpdateUnknownIDIsNoop(t *testing.T) {
	store, _ := setupStore(t)
	added, err := store.Add(openTrade("INCO", models.TradeTypeBSJP))
	require.NoError(t, err)

	notes := "ignored"
	_, found, err := store.Update("missing", models.TradeUpdate{Notes: &notes})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []models.Trade{added}, store.List())
}

func TestStore_Delete(t *testing.T) {
	store, _ := setupStore(t)
	keep, err := store.Add(openTrade("GOTO", models.TradeTypeScalping))
	require.NoError(t, err)
	drop, err := store.Add(openTrade("BUKA", models.TradeTypeScalping))
	require.NoError(t, err)

	found, err := store.Delete(drop.ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, ok := store.Get(drop.ID)
	assert.False(t, ok)
	assert.Equal(t, []models.Trade{keep}, store.List())

	found, err = store.Delete("missing")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, store.List(), 1)
}

func TestStore_DeleteLastTradeReportsRemoval(t *testing.T) {
	store, slot := setupStore(t)
	added, err := store.Add(openTrade("BBRI", models.TradeTypeSwing))
	require.NoError(t, err)

	found, err := store.Delete(added.ID)
	require.NoError(t, err)
	assert.True(t, found, "a removed trade must be reported as found")

	_, ok := store.Get(added.ID)
	assert.False(t, ok)
	assert.Empty(t, store.List())

	raw, err := slot.Read(DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestStore_DeleteWriteFailureKeepsTrade(t *testing.T) {
	slot := new(MockSlot)
	slot.On("Read", DefaultKey).Return(nil, storage.ErrSlotNotFound)
	slot.On("Write", DefaultKey, mock.Anything).Return(nil).Once()
	slot.On("Write", DefaultKey, mock.Anything).Return(errors.New("quota exceeded")).Once()

	store, err := Open(slot)
	require.NoError(t, err)
	added, err := store.Add(openTrade("MDKA", models.TradeTypeSwing))
	require.NoError(t, err)

	found, err := store.Delete(added.ID)
	assert.Error(t, err)
	assert.False(t, found)
	_, ok := store.Get(added.ID)
	assert.True(t, ok)
	slot.AssertExpectations(t)
}

func TestStore_PersistsPricesAsNumbers(t *testing.T) {
	store, slot := setupStore(t)
	trade := openTrade("ANTM", models.TradeTypeBSJP)
	trade.Status = models.StatusClosed
	trade.SellDate = "2024-05-17"
	trade.SellPrice = decPtr("1250.5")
	_, err := store.Add(trade)
	require.NoError(t, err)

	raw, err := slot.Read(DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"id-1","code":"ANTM","type":"BSJP","status":"CLOSED","buyDate":"2024-05-01",
		"buyPrice":1000,"qty":1,"sellDate":"2024-05-17","sellPrice":1250.5}]`, string(raw))
}

func TestStore_ListReturnsCopy(t *testing.T) {
	store, _ := setupStore(t)
	_, err := store.Add(openTrade("UNVR", models.TradeTypeSwing))
	require.NoError(t, err)

	trades := store.List()
	trades[0].Code = "HACKED"

	assert.Equal(t, "UNVR", store.List()[0].Code)
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	store, slot := setupStore(t)

	added, err := store.Add(openTrade("PGAS", models.TradeTypeSwing))
	require.NoError(t, err)

	raw, err := slot.Read(DefaultKey)
	require.NoError(t, err)
	var persisted []models.Trade
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, added.ID, persisted[0].ID)

	_, err = store.Delete(added.ID)
	require.NoError(t, err)
	raw, err = slot.Read(DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestStore_RoundTrip(t *testing.T) {
	store, slot := setupStore(t)

	_, err := store.Add(openTrade("ADRO", models.TradeTypeBSJP))
	require.NoError(t, err)
	closed := openTrade("PTBA", models.TradeTypeSwing)
	closed.Status = models.StatusClosed
	closed.SellDate = "2024-05-10"
	closed.SellPrice = decPtr("1100.5")
	closed.Fees = decPtr("2500")
	closed.Notes = "took profit"
	_, err = store.Add(closed)
	require.NoError(t, err)

	reopened, err := Open(slot)
	require.NoError(t, err)

	before, after := store.List(), reopened.List()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Code, after[i].Code)
		assert.Equal(t, before[i].Status, after[i].Status)
		assert.Equal(t, before[i].SellDate, after[i].SellDate)
		assert.Equal(t, before[i].Notes, after[i].Notes)
		assert.True(t, before[i].BuyPrice.Equal(after[i].BuyPrice))
		if before[i].SellPrice != nil {
			require.NotNil(t, after[i].SellPrice)
			assert.True(t, before[i].SellPrice.Equal(*after[i].SellPrice))
		} else {
			assert.Nil(t, after[i].SellPrice)
		}
	}
}

func TestOpen_UnparseableBlobStartsEmpty(t *testing.T) {
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Write(DefaultKey, []byte(`{not json`)))

	store, err := Open(slot)
	require.NoError(t, err)
	assert.Empty(t, store.List())
}

func TestOpen_NullBlobStartsEmpty(t *testing.T) {
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Write(DefaultKey, []byte(`null`)))

	store, err := Open(slot)
	require.NoError(t, err)
	assert.NotNil(t, store.List())
	assert.Empty(t, store.List())
}

func TestOpen_ReadsBrowserExport(t *testing.T) {
	slot := storage.NewMemorySlot()
	blob := `[{"id":"a","code":"BBRI","type":"SWING","status":"CLOSED","buyDate":"2024-05-01",
		"buyPrice":100,"sellDate":"2024-05-17","sellPrice":120,"qty":2,"notes":""}]`
	require.NoError(t, slot.Write(DefaultKey, []byte(blob)))

	store, err := Open(slot, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	stats := store.Stats()
	assert.True(t, dec("4000").Equal(stats.TotalPnL))
	assert.True(t, dec("4000").Equal(stats.TodayPnL))
}

func TestOpen_ReadError(t *testing.T) {
	slot := new(MockSlot)
	slot.On("Read", DefaultKey).Return(nil, errors.New("disk gone"))

	_, err := Open(slot)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	slot.AssertExpectations(t)
}

func TestStore_WriteFailureLeavesCollectionUnchanged(t *testing.T) {
	slot := new(MockSlot)
	slot.On("Read", "custom").Return(nil, storage.ErrSlotNotFound)
	slot.On("Write", "custom", mock.Anything).Return(errors.New("quota exceeded"))

	store, err := Open(slot, WithKey("custom"))
	require.NoError(t, err)

	_, err = store.Add(openTrade("MDKA", models.TradeTypeSwing))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, store.List())
	slot.AssertExpectations(t)
}

func TestStore_StatsAndSummary(t *testing.T) {
	store, _ := setupStore(t)

	open := openTrade("BBNI", models.TradeTypeSwing)
	_, err := store.Add(open)
	require.NoError(t, err)

	closed := openTrade("BBRI", models.TradeTypeBSJP)
	closed.Status = models.StatusClosed
	closed.BuyPrice = dec("100")
	closed.SellPrice = decPtr("120")
	closed.SellDate = "2024-05-17"
	closed.Qty = 2
	_, err = store.Add(closed)
	require.NoError(t, err)

	stats := store.Stats()
	assert.True(t, dec("4000").Equal(stats.TotalPnL))
	assert.True(t, dec("4000").Equal(stats.TodayPnL))
	assert.Equal(t, 100.0, stats.WinRate)
	assert.Equal(t, 1, stats.OpenTrades)
	assert.Equal(t, 2, stats.TotalTrades)

	summary := store.Summary()
	assert.Equal(t, stats, summary.Stats)
	require.Len(t, summary.OpenTrades, 1)
	assert.Equal(t, "BBNI", summary.OpenTrades[0].Code)
}

func TestStore_TodayUsesLocation(t *testing.T) {
	// 20:00 UTC on the 17th is already the 18th in Jakarta.
	late := time.Date(2024, 5, 17, 20, 0, 0, 0, time.UTC)
	jakarta := time.FixedZone("WIB", 7*60*60)

	store, err := Open(storage.NewMemorySlot(),
		WithClock(func() time.Time { return late }),
		WithLocation(jakarta),
	)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-18", store.Today())
}

func TestStore_Filter(t *testing.T) {
	store, _ := setupStore(t)
	for _, tr := range []models.Trade{
		openTrade("A", models.TradeTypeBSJP),
		openTrade("B", models.TradeTypeSwing),
		openTrade("C", models.TradeTypeBSJP),
	} {
		_, err := store.Add(tr)
		require.NoError(t, err)
	}

	bsjp := store.Filter(TradeFilter{Type: models.TradeTypeBSJP})
	require.Len(t, bsjp, 2)
	assert.Equal(t, "C", bsjp[0].Code)
	assert.Equal(t, "A", bsjp[1].Code)

	all := store.Filter(TradeFilter{Type: AllTypes})
	assert.Equal(t, store.List(), all)
}
