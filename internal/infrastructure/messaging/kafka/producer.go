// Package kafka publishes engine completion events to the marketplace event
// bus.  Publishing is fire-and-forget from the caller's perspective: the
// engine logs failures and serves the request regardless.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/debnit/MsmeBazaar-sub003/internal/config"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
)

// ErrProducerClosed is returned by Publish after Close.
var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "kafka producer closed")

// messageWriter abstracts kafka.Writer so tests can capture messages without
// a broker.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes JSON-encoded events to Kafka topics.
type Producer struct {
	writer messageWriter
	logger logging.Logger
	closed atomic.Bool

	sent   atomic.Int64
	failed atomic.Int64
}

// NewProducer builds a Producer from configuration.  The writer resolves the
// topic per message so one producer serves both engine topics.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 100 * time.Millisecond
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			MaxAttempts:  retries,
			BatchTimeout: batchTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logger,
	}
}

func newProducerWithWriter(w messageWriter, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Producer{writer: w, logger: logger}
}

// Publish JSON-encodes payload and writes it to topic, keyed for partition
// affinity.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode event payload")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeExternalService, "write event to kafka")
	}
	p.sent.Add(1)
	return nil
}

// Sent returns the number of successfully written events.
func (p *Producer) Sent() int64 { return p.sent.Load() }

// Failed returns the number of failed writes.
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close flushes buffered messages and rejects further publishes.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

// TopicPublisher binds a Producer to one topic.  It satisfies the event
// publisher ports of the matching engine and the valuation orchestrator.
type TopicPublisher struct {
	producer *Producer
	topic    string
}

// ForTopic returns a publisher bound to topic.
func (p *Producer) ForTopic(topic string) *TopicPublisher {
	return &TopicPublisher{producer: p, topic: topic}
}

// Publish writes one event to the bound topic.
func (t *TopicPublisher) Publish(ctx context.Context, key string, payload interface{}) error {
	return t.producer.Publish(ctx, t.topic, key, payload)
}
