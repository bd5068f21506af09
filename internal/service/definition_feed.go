package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
)

const defaultFeedRetryInterval = 5 * time.Second

type DefinitionEventSource interface {
	FetchEvents(ctx context.Context) ([]domain.DefinitionEvent, error)
	AckEvent(ctx context.Context, ref string) error
	NackEvent(ref string)
}

type DefinitionWriter interface {
	Upsert(ctx context.Context, def domain.CheckDefinition) (domain.CheckDefinition, error)
	Delete(ctx context.Context, id string) error
}

// DefinitionFeed applies definition events from an external source through
// the same path as the HTTP API, so the scheduler is notified either way.
type DefinitionFeed struct {
	source        DefinitionEventSource
	definitions   DefinitionWriter
	log           *slog.Logger
	retryInterval time.Duration
}

func NewDefinitionFeed(source DefinitionEventSource, definitions DefinitionWriter, log *slog.Logger) *DefinitionFeed {
	return &DefinitionFeed{
		source:        source,
		definitions:   definitions,
		log:           log.With(slog.String("component", "definition_feed")),
		retryInterval: defaultFeedRetryInterval,
	}
}

func (f *DefinitionFeed) Start(ctx context.Context) error {
	f.log.Info("definition feed started")

	for {
		if ctx.Err() != nil {
			f.log.Info("definition feed stopped")
			return nil
		}

		if err := f.processEvents(ctx); err != nil {
			f.log.Error("failed to process definition events", sl.Err(err))

			select {
			case <-time.After(f.retryInterval):
			case <-ctx.Done():
			}
		}
	}
}

func (f *DefinitionFeed) processEvents(ctx context.Context) error {
	events, err := f.source.FetchEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if len(events) == 0 {
		return nil
	}

	var processedCount, skippedCount int

	for _, ev := range events {
		processed, err := f.tryApply(ctx, ev)
		if err != nil {
			f.log.Warn("definition event not applied",
				slog.String("op", string(ev.Op)),
				slog.String("id", ev.ID),
				sl.Err(err),
			)
		}

		if processed {
			if err := f.source.AckEvent(ctx, ev.Ref); err != nil {
				f.log.Error("failed to ack event", slog.String("ref", ev.Ref), sl.Err(err))
			}
			processedCount++
			continue
		}

		f.source.NackEvent(ev.Ref)
		skippedCount++
	}

	f.log.Debug("definition events summary",
		slog.Int("total", len(events)),
		slog.Int("processed", processedCount),
		slog.Int("skipped", skippedCount),
	)

	return nil
}

// tryApply reports processed=true when the event is applied or can never be
// applied; only store failures leave it unacknowledged.
func (f *DefinitionFeed) tryApply(ctx context.Context, ev domain.DefinitionEvent) (bool, error) {
	switch ev.Op {
	case domain.DefinitionOpUpsert:
		def := ev.Definition
		if def.ID == "" {
			def.ID = ev.ID
		}
		if _, err := f.definitions.Upsert(ctx, def); err != nil {
			return errors.Is(err, domain.ErrConfiguration), err
		}
		return true, nil

	case domain.DefinitionOpDelete:
		err := f.definitions.Delete(ctx, ev.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return false, err
		}
		return true, nil

	default:
		return true, domain.NewConfigurationError(fmt.Sprintf("unknown definition op: %q", ev.Op))
	}
}
