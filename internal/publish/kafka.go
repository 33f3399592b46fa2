// Package publish forwards executed trades to a downstream Kafka topic. It is one possible
// implementation of core.TradeCallback among several (see internal/tape for an in-process
// alternative); wiring it is optional and controlled by MATCHCORE_KAFKA_BROKERS.
package publish

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/latticebook/matchcore/internal/core"
)

// KafkaPublisher writes each drained trade batch to a topic, one message per trade, keyed by
// symbol so a downstream consumer group can partition by instrument.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher constructs a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish is a core.TradeCallback. Errors are not surfaced to the matching hot path: a downstream
// outage must never stall a shard, so write failures are silently dropped.
func (p *KafkaPublisher) Publish(trades []core.Trade) {
	msgs := make([]kafka.Message, len(trades))
	for i, tr := range trades {
		key := make([]byte, 4)
		binary.BigEndian.PutUint32(key, uint32(tr.SymbolID))
		msgs[i] = kafka.Message{Key: key, Value: encodeTrade(tr)}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.writer.WriteMessages(ctx, msgs...)
}

// encodeTrade lays out a trade in the fixed wire format described for the front-end: SymbolID,
// Price, Quantity, MakerOrderID, TakerOrderID, big-endian.
func encodeTrade(tr core.Trade) []byte {
	buf := make([]byte, 4+8+4+8+8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(tr.SymbolID))
	binary.BigEndian.PutUint64(buf[4:12], uint64(tr.Price))
	binary.BigEndian.PutUint32(buf[12:16], uint32(tr.Quantity))
	binary.BigEndian.PutUint64(buf[16:24], uint64(tr.Maker))
	binary.BigEndian.PutUint64(buf[24:32], uint64(tr.Taker))
	return buf
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
