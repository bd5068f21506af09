package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
)

var defaultPersistBackoff = []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, time.Second}

type ResultStore interface {
	SaveResult(ctx context.Context, result domain.Result) error
}

// ResultPublisher is a long-lived downstream such as a Kafka topic or the
// backend collector. A failing publisher is logged and kept.
type ResultPublisher interface {
	PublishResult(ctx context.Context, result domain.Result) error
}

// Subscriber is a connected observer. A failing subscriber is dropped.
type Subscriber interface {
	Send(ctx context.Context, result domain.Result) error
	Close() error
}

type ResultSink struct {
	store      ResultStore
	publishers []ResultPublisher
	log        *slog.Logger
	backoff    []time.Duration

	mu          sync.RWMutex
	subscribers map[Subscriber]struct{}
}

type SinkOption func(*ResultSink)

func WithPublisher(p ResultPublisher) SinkOption {
	return func(s *ResultSink) {
		if p != nil {
			s.publishers = append(s.publishers, p)
		}
	}
}

func WithPersistBackoff(backoff ...time.Duration) SinkOption {
	return func(s *ResultSink) {
		s.backoff = backoff
	}
}

func NewResultSink(store ResultStore, log *slog.Logger, opts ...SinkOption) *ResultSink {
	s := &ResultSink{
		store:       store,
		log:         log.With(slog.String("component", "sink")),
		backoff:     defaultPersistBackoff,
		subscribers: make(map[Subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResultSink) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers[sub] = struct{}{}
	s.log.Debug("subscriber registered", slog.Int("subscribers", len(s.subscribers)))
}

// Unsubscribe removes sub and reports whether it was registered. It does not
// close sub.
func (s *ResultSink) Unsubscribe(sub Subscriber) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscribers[sub]; !ok {
		return false
	}
	delete(s.subscribers, sub)
	return true
}

func (s *ResultSink) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.subscribers)
}

// Publish persists result, then forwards it to publishers and subscribers.
// A persist failure is logged after retries and does not stop delivery.
func (s *ResultSink) Publish(ctx context.Context, result domain.Result) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	if err := s.persist(ctx, result); err != nil {
		s.log.Error("failed to persist result",
			slog.String("config_id", result.ConfigID),
			sl.Err(err),
		)
	}

	for _, p := range s.publishers {
		if err := p.PublishResult(ctx, result); err != nil {
			s.log.Warn("result publisher failed",
				slog.String("config_id", result.ConfigID),
				sl.Err(err),
			)
		}
	}

	s.notify(ctx, result)
}

func (s *ResultSink) persist(ctx context.Context, result domain.Result) error {
	err := s.store.SaveResult(ctx, result)
	for _, wait := range s.backoff {
		if err == nil {
			return nil
		}

		s.log.Debug("retrying result persist", slog.Duration("in", wait), sl.Err(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.NewInfrastructureError(err)
		case <-timer.C:
		}

		err = s.store.SaveResult(ctx, result)
	}
	if err != nil {
		return domain.NewInfrastructureError(err)
	}
	return nil
}

func (s *ResultSink) notify(ctx context.Context, result domain.Result) {
	s.mu.RLock()
	subs := make([]Subscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	var (
		wg     conc.WaitGroup
		failMu sync.Mutex
		failed []Subscriber
	)
	for _, sub := range subs {
		sub := sub
		wg.Go(func() {
			if err := sub.Send(ctx, result); err != nil {
				s.log.Info("dropping subscriber after failed send", sl.Err(err))
				failMu.Lock()
				failed = append(failed, sub)
				failMu.Unlock()
			}
		})
	}
	wg.Wait()

	for _, sub := range failed {
		if s.Unsubscribe(sub) {
			_ = sub.Close()
		}
	}
}
