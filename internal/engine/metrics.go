package engine

import (
	"fmt"

	"github.com/latticebook/matchcore/internal/core"
)

// Snapshot is an engine-wide metrics report: totals plus one entry per shard.
type Snapshot struct {
	Total  core.Metrics
	Shards []core.Metrics
}

// MetricsSnapshot returns per-shard metrics alongside their sum.
func (e *Engine) MetricsSnapshot() Snapshot {
	snap := Snapshot{Shards: make([]core.Metrics, len(e.shards))}
	for i, s := range e.shards {
		m := s.metrics.Snapshot()
		snap.Shards[i] = m
		snap.Total.Add(m)
	}
	return snap
}

// Print writes a human-readable metrics report to stdout.
func (s Snapshot) Print() {
	fmt.Println("=== matchcore engine metrics ===")
	fmt.Printf("orders accepted: %d\n", s.Total.OrdersAccepted)
	fmt.Printf("orders rejected: %d\n", s.Total.OrdersRejected)
	fmt.Printf("trades executed: %d\n", s.Total.TradesExecuted)
	fmt.Printf("cancels applied: %d\n", s.Total.CancelsApplied)
	fmt.Printf("cancel misses: %d\n", s.Total.CancelMisses)
	fmt.Printf("queue full events: %d\n", s.Total.QueueFullEvents)
	for i, m := range s.Shards {
		fmt.Printf("  shard %d: accepted=%d trades=%d cancels=%d\n", i, m.OrdersAccepted, m.TradesExecuted, m.CancelsApplied)
	}
	fmt.Println("=================================")
}
