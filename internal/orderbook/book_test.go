package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/matchcore/internal/core"
)

func TestBookAddOrderSetsMaskAndBest(t *testing.T) {
	b := NewBook(1)
	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 10})

	assert.True(t, b.bidMask.Test(100))
	assert.Equal(t, core.Price(100), b.BestBid())

	order, ok := b.LookupActive(1)
	require.True(t, ok)
	assert.Equal(t, core.Quantity(10), order.Quantity)
}

func TestBookAddOrderInvalidPriceIsSilentlyDropped(t *testing.T) {
	b := NewBook(1)
	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: -1, Quantity: 10})
	b.AddOrder(core.Order{ID: 2, Side: core.Buy, Type: core.Limit, Price: core.PMax, Quantity: 10})

	_, ok1 := b.LookupActive(1)
	_, ok2 := b.LookupActive(2)
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestBookAddOrderDuplicateIdRejected(t *testing.T) {
	b := NewBook(1)
	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 10})
	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: 200, Quantity: 5})

	order, ok := b.LookupActive(1)
	require.True(t, ok)
	assert.Equal(t, core.Price(100), order.Price, "second add with a live duplicate id must be rejected")
}

func TestBookCancelOrderIsLazyTombstone(t *testing.T) {
	b := NewBook(1)
	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 10})

	b.CancelOrder(1)
	_, ok := b.LookupActive(1)
	assert.False(t, ok)

	// The mask bit and the node itself are not eagerly cleared; the level still reports the
	// tombstoned node present until the matcher walks past it.
	assert.True(t, b.bidMask.Test(100), "lazy cancellation must not eagerly clear the mask")
}

func TestBookCancelOrderIdempotent(t *testing.T) {
	b := NewBook(1)
	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 10})
	b.CancelOrder(1)
	assert.NotPanics(t, func() { b.CancelOrder(1) })
}

func TestBookCancelMissIsNoOp(t *testing.T) {
	b := NewBook(1)
	assert.NotPanics(t, func() { b.CancelOrder(999) })
}

func TestBookResetClearsState(t *testing.T) {
	b := NewBook(1)
	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 10})
	b.AddOrder(core.Order{ID: 2, Side: core.Sell, Type: core.Limit, Price: 200, Quantity: 5})

	b.Reset()

	assert.Equal(t, core.Price(0), b.BestBid())
	assert.Equal(t, core.Price(core.PMax), b.BestAsk())
	_, ok := b.LookupActive(1)
	assert.False(t, ok)
	assert.False(t, b.bidMask.Test(100))
}

func TestBookLevelQuantitySkipsTombstones(t *testing.T) {
	b := NewBook(1)
	b.AddOrder(core.Order{ID: 1, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 10})
	b.AddOrder(core.Order{ID: 2, Side: core.Buy, Type: core.Limit, Price: 100, Quantity: 5})

	assert.Equal(t, uint64(15), b.LevelQuantity(core.Buy, 100))

	b.CancelOrder(1)
	assert.Equal(t, uint64(5), b.LevelQuantity(core.Buy, 100))
}
