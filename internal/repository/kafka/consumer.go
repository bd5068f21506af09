package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"ozzus/pingdumb/internal/lib/logger/sl"
)

type Consumer struct {
	reader *kafka.Reader
	topic  string
	log    *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, log *slog.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			StartOffset: kafka.FirstOffset,
			Topic:       topic,
			GroupID:     groupID,
			MaxWait:     10 * time.Second,
		}),
		topic: topic,
		log:   log.With(slog.String("component", "kafka_consumer"), slog.String("topic", topic)),
	}
}

func (c *Consumer) CheckConnection(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", c.reader.Config().Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(c.topic)
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	c.log.Info("kafka connection ok", slog.Int("partitions", len(partitions)))
	return nil
}

// ReadEvent fetches the next message and decodes its value into v. The
// message is returned even when decoding fails so the caller can commit it.
func (c *Consumer) ReadEvent(ctx context.Context, v interface{}) (kafka.Message, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.log.Error("failed to fetch message", sl.Err(err))
		}
		return msg, err
	}

	c.log.Debug("received message",
		slog.String("key", string(msg.Key)),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
		slog.Int("value_length", len(msg.Value)),
	)

	if err := json.Unmarshal(msg.Value, v); err != nil {
		return msg, fmt.Errorf("decode message at offset %d: %w", msg.Offset, err)
	}

	return msg, nil
}

func (c *Consumer) CommitMessage(ctx context.Context, msg kafka.Message) error {
	return c.reader.CommitMessages(ctx, msg)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) Topic() string {
	return c.topic
}
