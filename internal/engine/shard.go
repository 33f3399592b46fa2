// Package engine implements the sharded execution layer: one goroutine and one command queue per
// shard, a symbol registry mapping symbols to shards, and the batched producer path that feeds
// commands into a shard's queue.
package engine

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/latticebook/matchcore/internal/core"
	"github.com/latticebook/matchcore/internal/orderbook"
)

const popBatchSize = 256

// shard owns a disjoint set of symbols' books, a single command queue, and a scratch trade buffer
// reused across pop-batches. The books, scratch buffer and sequence counter are mutated only by the
// worker goroutine, so the matching hot path takes no lock. Two fields are written from the caller's
// goroutine without synchronisation with the worker: books gains an entry in registerBook (called
// by Engine.RegisterSymbol) and callback is set by Engine.SetTradeCallback. The queue is switched
// into its multi-producer mode because every Producer, and the engine's own Stop/Reset, push to it.
type shard struct {
	id      int
	queue   *core.CommandQueue
	books   map[core.SymbolID]*orderbook.Book
	scratch []core.Trade
	seq     uint64
	metrics core.Metrics

	callback core.TradeCallback
	log      *zap.SugaredLogger

	stopped chan struct{}
}

func newShard(id int, queueSize uint64, log *zap.SugaredLogger) *shard {
	queue := core.NewCommandQueue(queueSize)
	queue.EnableMultiProducer()
	return &shard{
		id:      id,
		queue:   queue,
		books:   make(map[core.SymbolID]*orderbook.Book),
		scratch: make([]core.Trade, 0, 256),
		log:     log,
		stopped: make(chan struct{}),
	}
}

func (s *shard) registerBook(symbolID core.SymbolID) {
	s.books[symbolID] = orderbook.NewBook(symbolID)
}

// run is the shard worker loop: pop a batch, dispatch each command by kind, drain the accumulated
// trades to the callback once per batch, and yield when the queue is empty.
func (s *shard) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.stopped)

	buf := make([]core.Command, popBatchSize)

	for {
		n := s.queue.PopBatch(buf)
		if n == 0 {
			runtime.Gosched()
			continue
		}

		stopRequested := false
		for i := 0; i < n; i++ {
			cmd := buf[i]
			switch cmd.Kind {
			case core.CmdAdd:
				s.handleAdd(cmd.Order)
			case core.CmdCancel:
				s.handleCancel(cmd.SymbolID, cmd.OrderID)
			case core.CmdReset:
				for _, b := range s.books {
					b.Reset()
				}
			case core.CmdStop:
				stopRequested = true
			}
		}

		s.drainTrades()

		if stopRequested {
			s.log.Debugw("shard stopping", "shard", s.id)
			return
		}
	}
}

func (s *shard) handleAdd(order core.Order) {
	book, ok := s.books[order.SymbolID]
	if !ok {
		s.metrics.AddRejected(1)
		return
	}
	before := len(s.scratch)
	s.scratch = orderbook.Match(book, order, s.scratch, &s.seq)
	s.metrics.AddAccepted(1)
	s.metrics.AddTrades(uint64(len(s.scratch) - before))
}

func (s *shard) handleCancel(symbolID core.SymbolID, orderID core.OrderID) {
	book, ok := s.books[symbolID]
	if !ok {
		s.metrics.AddCancelMiss(1)
		return
	}
	if _, live := book.LookupActive(orderID); !live {
		s.metrics.AddCancelMiss(1)
		return
	}
	book.CancelOrder(orderID)
	s.metrics.AddCancels(1)
}

func (s *shard) drainTrades() {
	if len(s.scratch) == 0 {
		return
	}
	if s.callback != nil {
		s.callback(s.scratch)
	}
	s.scratch = s.scratch[:0]
}
