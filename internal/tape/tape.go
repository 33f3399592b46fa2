// Package tape is an in-memory, per-symbol index of executed trades, ordered by their per-shard
// sequence number. It exists purely as an observation aid — a callback that a caller wires onto
// engine.SetTradeCallback — and holds no state across process restarts, so it doesn't reintroduce
// the persistence this module's core explicitly excludes.
package tape

import (
	"sync"

	"github.com/google/btree"

	"github.com/latticebook/matchcore/internal/core"
)

const treeDegree = 32

// entry is the btree element: ordered first by symbol, then by sequence within the symbol.
type entry struct {
	symbolID core.SymbolID
	seq      uint64
	trade    core.Trade
}

func less(a, b entry) bool {
	if a.symbolID != b.symbolID {
		return a.symbolID < b.symbolID
	}
	return a.seq < b.seq
}

// Tape indexes trades for range queries by symbol. Safe for concurrent use: every shard's worker
// goroutine may call Record independently.
type Tape struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[entry]
}

// New constructs an empty tape.
func New() *Tape {
	return &Tape{tree: btree.NewG[entry](treeDegree, less)}
}

// Record is a core.TradeCallback: install it directly via engine.SetTradeCallback.
func (t *Tape) Record(trades []core.Trade) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tr := range trades {
		t.tree.ReplaceOrInsert(entry{symbolID: tr.SymbolID, seq: tr.Seq, trade: tr})
	}
}

// Range returns every trade for symbolID with sequence in [fromSeq, toSeq], in sequence order.
func (t *Tape) Range(symbolID core.SymbolID, fromSeq, toSeq uint64) []core.Trade {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []core.Trade
	lo := entry{symbolID: symbolID, seq: fromSeq}
	hi := entry{symbolID: symbolID, seq: toSeq + 1}
	t.tree.AscendRange(lo, hi, func(e entry) bool {
		out = append(out, e.trade)
		return true
	})
	return out
}

// Len returns the total number of trades indexed across all symbols.
func (t *Tape) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tree.Len()
}
