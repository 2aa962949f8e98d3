// Package kafka wraps segmentio/kafka-go for the catalog's change
// notifications. Values travel as JSON; keys pick the partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/config"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON-encoded values to a single topic.
type Producer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewProducer creates a synchronous Producer for topic.
func NewProducer(cfg config.KafkaConfig, topic string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newProducer(w, topic)
}

func newProducer(w messageWriter, topic string) *Producer {
	return &Producer{
		writer: w,
		topic:  topic,
		logger: slog.Default().With("component", "kafka-producer", "topic", topic),
	}
}

// Publish marshals value and writes it under key.
func (p *Producer) Publish(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s message: %w", p.topic, err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data}); err != nil {
		p.logger.Error("failed to publish message", "key", key, "error", err)
		return fmt.Errorf("publishing to %s: %w", p.topic, err)
	}
	p.logger.Debug("message published", "key", key, "value_size", len(data))
	return nil
}

// Close flushes pending writes.
func (p *Producer) Close() error {
	return p.writer.Close()
}
