package orderbook

import "github.com/latticebook/matchcore/internal/core"

// Book is a single symbol's order book: dense per-price head/tail arrays on each side, a bitset
// tracking which prices are occupied, a shared node arena, and an id index for O(1) cancellation.
// A Book is owned by exactly one shard worker goroutine; nothing here is safe for concurrent use.
type Book struct {
	SymbolID core.SymbolID

	bidHead []int32
	bidTail []int32
	askHead []int32
	askTail []int32

	bidMask *core.PriceBitset
	askMask *core.PriceBitset

	arena   *arena
	idIndex map[core.OrderID]int32

	bestBid core.Price
	bestAsk core.Price
}

// NewBook allocates a book covering the full price grid for symbol id.
func NewBook(symbolID core.SymbolID) *Book {
	b := &Book{
		SymbolID: symbolID,
		bidHead:  make([]int32, core.PMax),
		bidTail:  make([]int32, core.PMax),
		askHead:  make([]int32, core.PMax),
		askTail:  make([]int32, core.PMax),
		bidMask:  core.NewPriceBitset(core.PMax),
		askMask:  core.NewPriceBitset(core.PMax),
		arena:    newArena(1024),
		idIndex:  make(map[core.OrderID]int32, 1024),
	}
	b.Reset()
	return b
}

// Reset empties the book in O(PMax) without releasing the underlying arrays or the arena's
// backing storage, so a stress test or a Reset command doesn't churn the allocator.
func (b *Book) Reset() {
	for p := 0; p < core.PMax; p++ {
		b.bidHead[p] = -1
		b.bidTail[p] = -1
		b.askHead[p] = -1
		b.askTail[p] = -1
	}
	b.bidMask.ClearAll()
	b.askMask.ClearAll()
	b.arena.reset()
	for k := range b.idIndex {
		delete(b.idIndex, k)
	}
	b.bestBid = 0
	b.bestAsk = core.Price(core.PMax)
}

// BestBid returns the current best bid hint (0 if the bid side is empty). Per the lazy staleness
// policy, this is a hint; only a bitset scan is authoritative once levels have been consumed by
// the matcher.
func (b *Book) BestBid() core.Price { return b.bestBid }

// BestAsk returns the current best ask hint (core.PMax if the ask side is empty).
func (b *Book) BestAsk() core.Price { return b.bestAsk }

// NextAsk returns the lowest occupied ask price >= from, or core.PMax if none exists.
func (b *Book) NextAsk(from core.Price) core.Price {
	return core.Price(b.askMask.FindFirstSet(int(from)))
}

// NextBidDown returns the highest occupied bid price <= from, or -1 if none exists.
func (b *Book) NextBidDown(from core.Price) core.Price {
	return core.Price(b.bidMask.FindFirstSetDown(int(from)))
}

func headTail(b *Book, side core.Side, p core.Price) (*int32, *int32, *core.PriceBitset) {
	if side == core.Buy {
		return &b.bidHead[p], &b.bidTail[p], b.bidMask
	}
	return &b.askHead[p], &b.askTail[p], b.askMask
}

// AddOrder inserts order at the tail of its (side, price) level. Out-of-range prices are silently
// dropped. An id already live in the index is silently rejected rather than replacing the resting
// order.
func (b *Book) AddOrder(order core.Order) {
	if order.Price < 0 || int(order.Price) >= core.PMax {
		return
	}
	if _, exists := b.idIndex[order.ID]; exists {
		return
	}

	idx := b.arena.alloc(order)
	head, tail, mask := headTail(b, order.Side, order.Price)

	if *head == -1 {
		*head = idx
		*tail = idx
		mask.Set(int(order.Price))
	} else {
		b.arena.get(*tail).next = idx
		*tail = idx
	}
	b.idIndex[order.ID] = idx

	if order.Side == core.Buy {
		if order.Price > b.bestBid {
			b.bestBid = order.Price
		}
	} else {
		if b.bestAsk == core.Price(core.PMax) || order.Price < b.bestAsk {
			b.bestAsk = order.Price
		}
	}
}

// LookupActive reports whether orderId currently has a live (non-tombstoned) resting node.
func (b *Book) LookupActive(orderId core.OrderID) (core.Order, bool) {
	idx, ok := b.idIndex[orderId]
	if !ok {
		return core.Order{}, false
	}
	n := b.arena.get(idx)
	if !n.active {
		return core.Order{}, false
	}
	return n.order, true
}

// CancelOrder tombstones the live order with orderId, if any (CancelMiss is a silent no-op). The
// node is not unlinked here; the matcher reclaims it lazily the next time it walks past the head
// of its level.
func (b *Book) CancelOrder(orderId core.OrderID) {
	idx, ok := b.idIndex[orderId]
	if !ok {
		return
	}
	n := b.arena.get(idx)
	if n.active {
		n.active = false
	}
	delete(b.idIndex, orderId)
}

// setHead advances the head of a (side, price) level to newHead, clearing the level's mask bit
// and tail when the level empties.
func (b *Book) setHead(side core.Side, p core.Price, newHead int32) {
	head, tail, mask := headTail(b, side, p)
	*head = newHead
	if newHead == -1 {
		*tail = -1
		mask.Clear(int(p))
	}
}

// node exposes an arena node by index for the matcher; not part of the book's stable API.
func (b *Book) node(idx int32) *node { return b.arena.get(idx) }

func (b *Book) freeNode(idx int32) { b.arena.free(idx) }

// LevelQuantity sums the active quantity resting at (side, price). Debug/reporting helper only;
// the matcher never needs a level total, so this walks the list rather than maintaining a running
// sum on the hot path.
func (b *Book) LevelQuantity(side core.Side, p core.Price) uint64 {
	if p < 0 || int(p) >= core.PMax {
		return 0
	}
	var total uint64
	idx := b.head(side, p)
	for idx != -1 {
		n := b.arena.get(idx)
		if n.active {
			total += uint64(n.order.Quantity)
		}
		idx = n.next
	}
	return total
}

// head returns the current head index of a (side, price) level, or -1 if empty.
func (b *Book) head(side core.Side, p core.Price) int32 {
	head, _, _ := headTail(b, side, p)
	return *head
}
