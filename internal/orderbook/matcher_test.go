package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/matchcore/internal/core"
)

func TestMatchFullMatch(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Sell, Type: core.Limit, Price: 10000, Quantity: 10})
	trades = Match(b, core.Order{ID: 2, Side: core.Buy, Type: core.Limit, Price: 10000, Quantity: 10}, trades, &seq)

	require.Len(t, trades, 1)
	assert.Equal(t, core.Trade{SymbolID: 1, Price: 10000, Quantity: 10, Maker: 1, Taker: 2, Seq: 1}, trades[0])
	_, ok := b.LookupActive(1)
	assert.False(t, ok, "fully filled maker must not remain resting")
}

func TestMatchPartialMatch(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Sell, Type: core.Limit, Price: 10000, Quantity: 20})
	trades = Match(b, core.Order{ID: 2, Side: core.Buy, Type: core.Limit, Price: 10000, Quantity: 10}, trades, &seq)

	require.Len(t, trades, 1)
	assert.Equal(t, core.Quantity(10), trades[0].Quantity)

	remaining, ok := b.LookupActive(1)
	require.True(t, ok)
	assert.Equal(t, core.Quantity(10), remaining.Quantity)
}

func TestMatchNoMatchWhenPricesDoNotCross(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Sell, Type: core.Limit, Price: 10100, Quantity: 10})
	trades = Match(b, core.Order{ID: 2, Side: core.Buy, Type: core.Limit, Price: 10000, Quantity: 10}, trades, &seq)

	assert.Empty(t, trades)
	_, sellOk := b.LookupActive(1)
	_, buyOk := b.LookupActive(2)
	assert.True(t, sellOk)
	assert.True(t, buyOk)
}

func TestMatchCancelThenNoMatch(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Sell, Type: core.Limit, Price: 10000, Quantity: 10})
	b.CancelOrder(1)
	trades = Match(b, core.Order{ID: 2, Side: core.Buy, Type: core.Limit, Price: 10000, Quantity: 10}, trades, &seq)

	assert.Empty(t, trades)
	_, ok := b.LookupActive(2)
	assert.True(t, ok, "buy should rest since the sell was cancelled before matching")
}

func TestMatchMarketFullyFills(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Sell, Type: core.Limit, Price: 10000, Quantity: 10})
	trades = Match(b, core.Order{ID: 2, Side: core.Buy, Type: core.Market, Quantity: 10}, trades, &seq)

	require.Len(t, trades, 1)
	assert.Equal(t, core.Price(10000), trades[0].Price)
	_, ok := b.LookupActive(1)
	assert.False(t, ok)
}

func TestMatchMarketPartialThenDrop(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Sell, Type: core.Limit, Price: 10000, Quantity: 10})
	trades = Match(b, core.Order{ID: 2, Side: core.Buy, Type: core.Market, Quantity: 20}, trades, &seq)

	require.Len(t, trades, 1)
	assert.Equal(t, core.Quantity(10), trades[0].Quantity)
	assert.Equal(t, core.Price(core.PMax), b.NextAsk(0), "the resting sell must be fully consumed")
	_, rested := b.LookupActive(2)
	assert.False(t, rested, "market order remainder must be dropped, not rested")
}

func TestMatchFIFOAtAPrice(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Sell, Type: core.Limit, Price: 100, Quantity: 5})
	b.AddOrder(core.Order{ID: 2, Side: core.Sell, Type: core.Limit, Price: 100, Quantity: 5})
	trades = Match(b, core.Order{ID: 3, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 10}, trades, &seq)

	require.Len(t, trades, 2)
	assert.Equal(t, core.OrderID(1), trades[0].Maker)
	assert.Equal(t, core.OrderID(2), trades[1].Maker)
}

func TestMatchSellSideSymmetric(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 5})
	b.AddOrder(core.Order{ID: 2, Side: core.Buy, Type: core.Limit, Price: 101, Quantity: 5})
	trades = Match(b, core.Order{ID: 3, Side: core.Sell, Type: core.Limit, Price: 100, Quantity: 10}, trades, &seq)

	require.Len(t, trades, 2)
	assert.Equal(t, core.Price(101), trades[0].Price, "best (highest) bid trades first for an incoming sell")
	assert.Equal(t, core.Price(100), trades[1].Price)
}

func TestMatchTombstoneSkippedDuringWalk(t *testing.T) {
	b := NewBook(1)
	var seq uint64
	var trades []core.Trade

	b.AddOrder(core.Order{ID: 1, Side: core.Sell, Type: core.Limit, Price: 100, Quantity: 5})
	b.CancelOrder(1)
	b.AddOrder(core.Order{ID: 2, Side: core.Sell, Type: core.Limit, Price: 100, Quantity: 5})

	trades = Match(b, core.Order{ID: 3, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 5}, trades, &seq)

	require.Len(t, trades, 1)
	assert.Equal(t, core.OrderID(2), trades[0].Maker, "tombstoned head must be reclaimed and skipped")
}
