// Command cmd/bench is a standalone throughput driver, turning the package-level matching
// benchmarks into a runnable program against the full engine API.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/latticebook/matchcore/internal/core"
	"github.com/latticebook/matchcore/internal/engine"
)

func main() {
	orders := flag.Int("orders", 1_000_000, "number of orders to submit")
	workers := flag.Int("workers", 0, "shard count (0 = NumCPU)")
	symbols := flag.Int("symbols", 8, "number of distinct symbols")
	flag.Parse()

	eng := engine.New(engine.Config{Workers: *workers})
	defer eng.Stop()

	symbolIDs := make([]core.SymbolID, *symbols)
	for i := range symbolIDs {
		symbolIDs[i] = eng.RegisterSymbol(fmt.Sprintf("SYM%d", i), -1)
	}

	producer := eng.NewProducer()
	start := time.Now()

	var id core.OrderID
	for i := 0; i < *orders; i++ {
		id++
		sym := symbolIDs[i%len(symbolIDs)]
		side := core.Buy
		if i%2 == 1 {
			side = core.Sell
		}
		producer.SubmitOrder(core.Order{
			ID:       id,
			SymbolID: sym,
			Side:     side,
			Type:     core.Limit,
			Price:    core.Price(100 + i%50),
			Quantity: core.Quantity(1 + i%10),
		}, -1)
	}
	producer.Flush()

	elapsed := time.Since(start)
	rate := float64(*orders) / elapsed.Seconds()

	fmt.Printf("submitted %d orders across %d symbols in %s (%.0f orders/sec)\n", *orders, *symbols, elapsed, rate)
	eng.MetricsSnapshot().Print()
}
