package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
)

//go:generate mockgen -source=definition_event_repository.go -destination=mocks/mock_definition_event_repository.go -package=mocks

const (
	fetchWindow   = 5 * time.Second
	fetchMaxBatch = 100
)

type DefinitionEventRepository interface {
	FetchEvents(ctx context.Context) ([]domain.DefinitionEvent, error)
	AckEvent(ctx context.Context, ref string) error
	NackEvent(ref string)
}

// EventConsumer is satisfied by kafka.Consumer.
type EventConsumer interface {
	ReadEvent(ctx context.Context, v interface{}) (kafkago.Message, error)
	CommitMessage(ctx context.Context, msg kafkago.Message) error
}

type KafkaDefinitionEventRepository struct {
	consumer EventConsumer
	log      *slog.Logger

	mu       sync.Mutex
	messages map[string]kafkago.Message
}

func NewKafkaDefinitionEventRepository(consumer EventConsumer, log *slog.Logger) *KafkaDefinitionEventRepository {
	return &KafkaDefinitionEventRepository{
		consumer: consumer,
		log:      log.With(slog.String("component", "kafka_definitions")),
		messages: make(map[string]kafkago.Message),
	}
}

func messageRef(msg kafkago.Message) string {
	return fmt.Sprintf("%d/%d", msg.Partition, msg.Offset)
}

// FetchEvents collects up to fetchMaxBatch events or whatever arrives within
// fetchWindow. Undecodable messages are committed and skipped.
func (r *KafkaDefinitionEventRepository) FetchEvents(ctx context.Context) ([]domain.DefinitionEvent, error) {
	var events []domain.DefinitionEvent

	timeoutCtx, cancel := context.WithTimeout(ctx, fetchWindow)
	defer cancel()

	for len(events) < fetchMaxBatch {
		if err := timeoutCtx.Err(); err != nil {
			break
		}

		var ev domain.DefinitionEvent
		msg, err := r.consumer.ReadEvent(timeoutCtx, &ev)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if errors.Is(err, context.Canceled) {
				return events, nil
			}
			if msg.Value != nil {
				r.log.Warn("skipping undecodable definition event", sl.Err(err))
				if cerr := r.consumer.CommitMessage(ctx, msg); cerr != nil {
					r.log.Error("failed to commit skipped message", sl.Err(cerr))
				}
				continue
			}

			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		if ev.ID == "" {
			ev.ID = ev.Definition.ID
		}
		if ev.ID == "" && ev.Op == domain.DefinitionOpDelete {
			r.log.Warn("skipping delete event without id", slog.Int64("offset", msg.Offset))
			if cerr := r.consumer.CommitMessage(ctx, msg); cerr != nil {
				r.log.Error("failed to commit skipped message", sl.Err(cerr))
			}
			continue
		}

		ev.Ref = messageRef(msg)

		r.mu.Lock()
		r.messages[ev.Ref] = msg
		r.mu.Unlock()

		events = append(events, ev)
	}

	return events, nil
}

func (r *KafkaDefinitionEventRepository) AckEvent(ctx context.Context, ref string) error {
	r.mu.Lock()
	msg, ok := r.messages[ref]
	r.mu.Unlock()

	if !ok {
		return nil
	}

	const maxRetries = 3

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return ctx.Err()
			}
			if remaining < timeout {
				timeout = remaining
			}
		}

		commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		err := r.consumer.CommitMessage(commitCtx, msg)
		cancel()

		if err != nil {
			lastErr = err

			if ctx.Err() != nil {
				break
			}

			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}

		r.mu.Lock()
		delete(r.messages, ref)
		r.mu.Unlock()

		return nil
	}

	return fmt.Errorf("failed to commit message: %w", lastErr)
}

func (r *KafkaDefinitionEventRepository) NackEvent(ref string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, ref)
}
