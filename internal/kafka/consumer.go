package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler processes one booking event message.
type Handler func(ctx context.Context, msg kafka.Message) error

// Consumer reads booking events from a topic as part of a consumer group. A
// handler error stops the loop, so offsets never advance past a message that
// was not handled.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	// Booking events are small and sparse; read them promptly instead of
	// waiting for batches to fill.
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        groupID,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       1 << 20,
			MaxWait:        500 * time.Millisecond,
			CommitInterval: time.Second,
		}),
	}
}

func (c *Consumer) Consume(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		if err := handle(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}
