package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/latticebook/matchcore/internal/config"
	"github.com/latticebook/matchcore/internal/core"
	"github.com/latticebook/matchcore/internal/engine"
	"github.com/latticebook/matchcore/internal/logging"
	"github.com/latticebook/matchcore/internal/publish"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	eng := engine.New(engine.Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Logger:    log,
	})

	var kafkaPub *publish.KafkaPublisher
	if cfg.KafkaBrokers != "" {
		kafkaPub = publish.NewKafkaPublisher(splitBrokers(cfg.KafkaBrokers), cfg.KafkaTopic)
		defer kafkaPub.Close()
	}

	srv := newServer(eng, cfg.FrontendPort, log)
	if err := srv.start(); err != nil {
		log.Fatalw("frontend failed to start", "err", err)
	}

	broadcast := srv.tradeCallback()
	if kafkaPub != nil {
		eng.SetTradeCallback(func(trades []core.Trade) {
			broadcast(trades)
			kafkaPub.Publish(trades)
		})
	} else {
		eng.SetTradeCallback(broadcast)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Infow("shutting down")
	srv.stop()
	eng.Stop()
}

func splitBrokers(csv string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(csv); i++ {
		if i == len(csv) || csv[i] == ',' {
			if i > start {
				out = append(out, csv[start:i])
			}
			start = i + 1
		}
	}
	return out
}
