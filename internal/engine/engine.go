package engine

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/latticebook/matchcore/internal/core"
	"github.com/latticebook/matchcore/internal/orderbook"
)

// Config controls shard count and queue sizing at construction. Zero values pick the defaults
// documented in the environment table this module's configuration layer reads from.
type Config struct {
	Workers   int
	QueueSize uint64
	Logger    *zap.SugaredLogger
}

// Engine is the façade: it owns the symbol registry, the shards, and their worker goroutines.
type Engine struct {
	mu sync.RWMutex

	nameToID  map[string]core.SymbolID
	idToName  map[core.SymbolID]string
	idToShard map[core.SymbolID]int

	shards []*shard
	log    *zap.SugaredLogger

	stopped bool
}

// New constructs and starts an Engine with cfg.Workers shards (default runtime.NumCPU()).
func New(cfg Config) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	queueSize := cfg.QueueSize
	if queueSize == 0 {
		queueSize = core.DefaultQueueSize
	}
	log := cfg.Logger
	if log == nil {
		l, _ := zap.NewProduction()
		log = l.Sugar()
	}

	e := &Engine{
		nameToID:  make(map[string]core.SymbolID),
		idToName:  make(map[core.SymbolID]string),
		idToShard: make(map[core.SymbolID]int),
		shards:    make([]*shard, workers),
		log:       log,
	}
	for i := 0; i < workers; i++ {
		e.shards[i] = newShard(i, queueSize, log)
		go e.shards[i].run()
	}
	e.log.Infow("engine started", "workers", workers, "queue_size", queueSize)
	return e
}

// NewProducer returns a Producer bound to the calling goroutine's batching state, in place of the
// implicit thread-local storage a single shared producer would otherwise need.
func (e *Engine) NewProducer() *Producer {
	return newProducer(e)
}

// RegisterSymbol assigns (idempotently) a SymbolID to name and creates its book on the resolved
// shard. shardHint pins the symbol to a specific shard when in range; otherwise the symbol goes to
// shard SymbolID % number of shards.
func (e *Engine) RegisterSymbol(name string, shardHint int) core.SymbolID {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id, ok := e.nameToID[name]; ok {
		return id
	}

	id := core.SymbolID(len(e.nameToID))
	shardID := shardHint
	if shardID < 0 || shardID >= len(e.shards) {
		shardID = int(id) % len(e.shards)
	}

	e.nameToID[name] = id
	e.idToName[id] = name
	e.idToShard[id] = shardID
	e.shards[shardID].registerBook(id)

	e.log.Infow("symbol registered", "symbol", name, "id", id, "shard", shardID)
	return id
}

// SymbolName returns the name a SymbolID was registered under, or "UNKNOWN".
func (e *Engine) SymbolName(id core.SymbolID) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if name, ok := e.idToName[id]; ok {
		return name
	}
	return "UNKNOWN"
}

// resolveShard returns the shard index owning symbolID, or -1 if symbolID is unregistered.
// shardHint overrides routing when in range.
func (e *Engine) resolveShard(symbolID core.SymbolID, shardHint int) int {
	if shardHint >= 0 && shardHint < len(e.shards) {
		return shardHint
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	shardID, ok := e.idToShard[symbolID]
	if !ok {
		return -1
	}
	return shardID
}

// GetOrderBook returns the live book for symbolID, or nil if unregistered. The returned Book is
// owned by its shard's worker goroutine; callers must not mutate it. Flush does not wait for the
// worker, so reads are only meaningful after Stop has returned.
func (e *Engine) GetOrderBook(symbolID core.SymbolID) *orderbook.Book {
	e.mu.RLock()
	shardID, ok := e.idToShard[symbolID]
	e.mu.RUnlock()
	if !ok {
		return nil
	}
	return e.shards[shardID].books[symbolID]
}

// SetTradeCallback installs fn on every shard. fn must be safe to call concurrently: every
// shard's worker goroutine may invoke it independently.
func (e *Engine) SetTradeCallback(fn core.TradeCallback) {
	for _, s := range e.shards {
		s.callback = fn
	}
}

// Metrics returns the sum of every shard's metrics snapshot.
func (e *Engine) Metrics() core.Metrics {
	var total core.Metrics
	for _, s := range e.shards {
		total.Add(s.metrics.Snapshot())
	}
	return total
}

// Reset broadcasts a Reset command to every shard and waits briefly for it to be processed.
// Intended for tests only.
func (e *Engine) Reset() {
	for _, s := range e.shards {
		s.queue.PushBlock(core.Command{Kind: core.CmdReset})
	}
	time.Sleep(time.Millisecond)
}

// Stop broadcasts a Stop command to every shard and waits for their worker goroutines to exit.
// Submitting after Stop is undefined behaviour (ShutdownInFlight); callers must not race it.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()

	for _, s := range e.shards {
		s.queue.PushBlock(core.Command{Kind: core.CmdStop})
	}
	for _, s := range e.shards {
		<-s.stopped
	}
	e.log.Infow("engine stopped")
}
