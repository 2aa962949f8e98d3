package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/config"
	"github.com/segmentio/kafka-go"
)

// MessageHandler processes one message. A non-nil error leaves the offset
// uncommitted.
type MessageHandler func(ctx context.Context, key, value []byte) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer feeds messages of one topic to a MessageHandler.
type Consumer struct {
	reader  messageReader
	handler MessageHandler
	logger  *slog.Logger
}

// NewConsumer joins group on topic. Every replica of the service must pass a
// distinct group so that each one sees every message.
func NewConsumer(cfg config.KafkaConfig, topic, group string, handler MessageHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topic,
		GroupID:     group,
		MinBytes:    1,
		MaxBytes:    1e6,
		StartOffset: kafka.LastOffset,
	})
	return newConsumer(r, topic, handler)
}

func newConsumer(r messageReader, topic string, handler MessageHandler) *Consumer {
	return &Consumer{
		reader:  r,
		handler: handler,
		logger:  slog.Default().With("component", "kafka-consumer", "topic", topic),
	}
}

// Run consumes until ctx is cancelled and then closes the reader.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started")
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", "reason", ctx.Err())
				return nil
			}
			c.logger.Error("failed to fetch message", "error", err)
			continue
		}
		if err := c.handler(ctx, msg.Key, msg.Value); err != nil {
			c.logger.Error("failed to process message",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit message", "offset", msg.Offset, "error", err)
		}
	}
}

// DecodeJSON unmarshals a message value into T.
func DecodeJSON[T any](value []byte) (T, error) {
	var result T
	if err := json.Unmarshal(value, &result); err != nil {
		return result, fmt.Errorf("decoding kafka message: %w", err)
	}
	return result, nil
}
