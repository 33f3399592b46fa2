package engine

import (
	"time"

	"github.com/latticebook/matchcore/internal/core"
)

// BatchSize is the number of commands a Producer accumulates per shard before it is forced onto
// that shard's queue.
const BatchSize = 256

// Producer is an explicit, per-goroutine batching handle: Go has no portable thread-local storage,
// so a caller that submits from N goroutines obtains N Producers, one per goroutine, and each
// keeps its own set of per-shard batches. Ordering within one Producer's calls to one shard is
// preserved exactly as submitted.
type Producer struct {
	eng     *Engine
	batches []batchBucket // indexed by shard id
}

type batchBucket struct {
	items []core.Command
}

func newProducer(eng *Engine) *Producer {
	p := &Producer{
		eng:     eng,
		batches: make([]batchBucket, len(eng.shards)),
	}
	for i := range p.batches {
		p.batches[i].items = make([]core.Command, 0, BatchSize)
	}
	return p
}

// SubmitOrder appends order's Add command to its target shard's batch, forcing a flush of that
// shard's batch when it fills. shardHint overrides symbol-based routing when >= 0. The returned
// duration is time spent blocked pushing a full batch onto the shard queue, for observability.
func (p *Producer) SubmitOrder(order core.Order, shardHint int) time.Duration {
	shardID := p.eng.resolveShard(order.SymbolID, shardHint)
	if shardID < 0 {
		return 0
	}
	return p.enqueue(shardID, core.Command{Kind: core.CmdAdd, Order: order})
}

// SubmitOrders submits every order in orders, in order, each routed independently.
func (p *Producer) SubmitOrders(orders []core.Order, shardHint int) time.Duration {
	var total time.Duration
	for _, o := range orders {
		total += p.SubmitOrder(o, shardHint)
	}
	return total
}

// CancelOrder appends a Cancel command for orderId on symbolId's shard.
func (p *Producer) CancelOrder(symbolID core.SymbolID, orderID core.OrderID) time.Duration {
	shardID := p.eng.resolveShard(symbolID, -1)
	if shardID < 0 {
		return 0
	}
	return p.enqueue(shardID, core.Command{Kind: core.CmdCancel, SymbolID: symbolID, OrderID: orderID})
}

func (p *Producer) enqueue(shardID int, cmd core.Command) time.Duration {
	b := &p.batches[shardID]
	b.items = append(b.items, cmd)
	if len(b.items) < BatchSize {
		return 0
	}
	return p.flushBucket(shardID)
}

func (p *Producer) flushBucket(shardID int) time.Duration {
	b := &p.batches[shardID]
	if len(b.items) == 0 {
		return 0
	}
	start := time.Now()
	p.eng.shards[shardID].queue.PushBatchBlock(b.items)
	elapsed := time.Since(start)
	b.items = b.items[:0]
	return elapsed
}

// Flush pushes every non-empty per-shard batch to its queue, blocking until each is accepted.
// Callers must Flush before relying on cross-shard ordering. Flush returns once the commands are
// queued; it does not wait for the shard workers to process them or to invoke the trade callback.
func (p *Producer) Flush() {
	for shardID := range p.batches {
		p.flushBucket(shardID)
	}
}
