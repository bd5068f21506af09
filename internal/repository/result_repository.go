package repository

import (
	"context"
	"fmt"
	"log/slog"

	"ozzus/pingdumb/internal/domain"
)

//go:generate mockgen -source=result_repository.go -destination=mocks/mock_result_repository.go -package=mocks

// EventProducer is satisfied by kafka.Producer.
type EventProducer interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
	Topic() string
}

// KafkaResultRepository streams every Result to a topic keyed by definition id.
type KafkaResultRepository struct {
	producer EventProducer
	log      *slog.Logger
}

func NewKafkaResultRepository(producer EventProducer, log *slog.Logger) *KafkaResultRepository {
	return &KafkaResultRepository{
		producer: producer,
		log:      log.With(slog.String("component", "kafka_results")),
	}
}

func (r *KafkaResultRepository) PublishResult(ctx context.Context, result domain.Result) error {
	if err := r.producer.PublishEvent(ctx, result.ConfigID, result); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}

	r.log.Debug("sent result",
		slog.String("config_id", result.ConfigID),
		slog.String("topic", r.producer.Topic()),
		slog.Bool("success", result.Success),
	)
	return nil
}
