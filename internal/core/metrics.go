package core

import "sync/atomic"

// Metrics is a shard's set of atomic counters, snapshotted by value for reporting.
type Metrics struct {
	OrdersAccepted  uint64
	OrdersRejected  uint64
	TradesExecuted  uint64
	CancelsApplied  uint64
	CancelMisses    uint64
	QueueFullEvents uint64
}

func (m *Metrics) AddAccepted(n uint64)   { atomic.AddUint64(&m.OrdersAccepted, n) }
func (m *Metrics) AddRejected(n uint64)   { atomic.AddUint64(&m.OrdersRejected, n) }
func (m *Metrics) AddTrades(n uint64)     { atomic.AddUint64(&m.TradesExecuted, n) }
func (m *Metrics) AddCancels(n uint64)    { atomic.AddUint64(&m.CancelsApplied, n) }
func (m *Metrics) AddCancelMiss(n uint64) { atomic.AddUint64(&m.CancelMisses, n) }
func (m *Metrics) AddQueueFull(n uint64)  { atomic.AddUint64(&m.QueueFullEvents, n) }

// Snapshot returns a copy safe to read without further synchronization.
func (m *Metrics) Snapshot() Metrics {
	return Metrics{
		OrdersAccepted:  atomic.LoadUint64(&m.OrdersAccepted),
		OrdersRejected:  atomic.LoadUint64(&m.OrdersRejected),
		TradesExecuted:  atomic.LoadUint64(&m.TradesExecuted),
		CancelsApplied:  atomic.LoadUint64(&m.CancelsApplied),
		CancelMisses:    atomic.LoadUint64(&m.CancelMisses),
		QueueFullEvents: atomic.LoadUint64(&m.QueueFullEvents),
	}
}

// Add merges another snapshot into this one, used when the engine aggregates per-shard metrics.
func (m *Metrics) Add(other Metrics) {
	atomic.AddUint64(&m.OrdersAccepted, other.OrdersAccepted)
	atomic.AddUint64(&m.OrdersRejected, other.OrdersRejected)
	atomic.AddUint64(&m.TradesExecuted, other.TradesExecuted)
	atomic.AddUint64(&m.CancelsApplied, other.CancelsApplied)
	atomic.AddUint64(&m.CancelMisses, other.CancelMisses)
	atomic.AddUint64(&m.QueueFullEvents, other.QueueFullEvents)
}
