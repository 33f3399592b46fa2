package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/latticebook/matchcore/internal/config"
	"github.com/latticebook/matchcore/internal/core"
	"github.com/latticebook/matchcore/internal/engine"
	"github.com/latticebook/matchcore/internal/logging"
	"github.com/latticebook/matchcore/internal/tape"
)

// runMetricsMonitor periodically logs the engine's aggregated metrics until stop is closed.
func runMetricsMonitor(eng *engine.Engine, stop <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			eng.MetricsSnapshot().Print()
		case <-stop:
			return
		}
	}
}

func main() {
	log.Println("matchcore matching engine")
	log.Println("==========================")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	sugar, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	eng := engine.New(engine.Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Logger:    sugar,
	})

	trades := tape.New()
	eng.SetTradeCallback(trades.Record)

	demo := eng.RegisterSymbol("DEMO", -1)
	producer := eng.NewProducer()
	producer.SubmitOrder(core.Order{ID: 1, SymbolID: demo, Side: core.Sell, Type: core.Limit, Price: 10000, Quantity: 10}, -1)
	producer.SubmitOrder(core.Order{ID: 2, SymbolID: demo, Side: core.Buy, Type: core.Limit, Price: 10000, Quantity: 10}, -1)
	producer.Flush()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	stop := make(chan struct{})
	go runMetricsMonitor(eng, stop)

	time.Sleep(100 * time.Millisecond)
	eng.MetricsSnapshot().Print()
	log.Printf("demo trades recorded on tape: %d", trades.Len())

	log.Println("engine running... press Ctrl+C to shut down")
	<-sigChan

	close(stop)
	eng.Stop()
	log.Println("shutdown complete")
}
