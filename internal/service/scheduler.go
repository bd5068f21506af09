package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
)

const (
	DefaultTickInterval   = 10 * time.Second
	defaultPublishTimeout = 10 * time.Second
)

var errAlreadyStarted = errors.New("scheduler already started")

type DefinitionLister interface {
	ListDefinitions(ctx context.Context) ([]domain.CheckDefinition, error)
}

type Executor interface {
	Execute(ctx context.Context, def domain.CheckDefinition) domain.Result
}

// Publisher receives every completed Result. It owns its own error handling.
type Publisher interface {
	Publish(ctx context.Context, result domain.Result)
}

// ScheduleState is kept per definition id.
type ScheduleState struct {
	NextEligibleAt time.Time
	Running        bool
}

type SchedulerConfig struct {
	TickInterval   time.Duration
	PublishTimeout time.Duration
	Now            func() time.Time
}

// Scheduler launches at most one execution per definition at a time and
// reschedules every completed execution at completion + interval.
type Scheduler struct {
	lister         DefinitionLister
	executor       Executor
	sink           Publisher
	log            *slog.Logger
	tickInterval   time.Duration
	publishTimeout time.Duration
	now            func() time.Time

	mu     sync.Mutex
	states map[string]*ScheduleState
	// draining holds ids removed by a notify call while their execution was
	// still in flight; they stay ineligible until that execution completes.
	draining map[string]struct{}

	inflight  conc.WaitGroup
	isRunning atomic.Bool
}

func NewScheduler(
	lister DefinitionLister,
	executor Executor,
	sink Publisher,
	log *slog.Logger,
	config SchedulerConfig,
) *Scheduler {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = defaultPublishTimeout
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Scheduler{
		lister:         lister,
		executor:       executor,
		sink:           sink,
		log:            log.With(slog.String("component", "scheduler")),
		tickInterval:   config.TickInterval,
		publishTimeout: config.PublishTimeout,
		now:            config.Now,
		states:         make(map[string]*ScheduleState),
		draining:       make(map[string]struct{}),
	}
}

// Start runs the tick loop until ctx is cancelled, then waits for in-flight
// executions. The first tick happens immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.isRunning.CompareAndSwap(false, true) {
		return errAlreadyStarted
	}
	defer s.isRunning.Store(false)

	s.log.Info("scheduler started", slog.Duration("tick_interval", s.tickInterval))

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.log.Info("scheduler stopping, waiting for in-flight checks")
			s.inflight.Wait()
			s.log.Info("scheduler stopped")
			return nil
		}
	}
}

// NotifyDefinitionChanged is called on every create and update. An existing
// entry keeps its countdown, so an interval change applies after the next run.
func (s *Scheduler) NotifyDefinitionChanged(def domain.CheckDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !def.Enabled {
		s.removeLocked(def.ID)
		return
	}

	if _, ok := s.states[def.ID]; ok {
		return
	}

	s.states[def.ID] = &ScheduleState{NextEligibleAt: s.now()}
}

func (s *Scheduler) NotifyDefinitionDeleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)
}

func (s *Scheduler) removeLocked(id string) {
	if st, ok := s.states[id]; ok && st.Running {
		s.draining[id] = struct{}{}
	}
	delete(s.states, id)
}

func (s *Scheduler) tick(ctx context.Context) {
	defs, err := s.lister.ListDefinitions(ctx)
	if err != nil {
		s.log.Error("failed to list definitions, skipping tick",
			sl.Err(domain.NewInfrastructureError(err)),
		)
		return
	}

	now := s.now()
	launch := make([]domain.CheckDefinition, 0)

	s.mu.Lock()

	listed := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		listed[def.ID] = struct{}{}

		if !def.Enabled {
			// a run that completed after disable left an entry behind
			if st, ok := s.states[def.ID]; ok && !st.Running {
				delete(s.states, def.ID)
			}
			continue
		}
		if _, busy := s.draining[def.ID]; busy {
			continue
		}

		st, ok := s.states[def.ID]
		if !ok {
			st = &ScheduleState{NextEligibleAt: now}
			s.states[def.ID] = st
		}

		if st.Running || now.Before(st.NextEligibleAt) {
			continue
		}

		st.Running = true
		launch = append(launch, def)
	}

	// entries for definitions that vanished from the store
	for id, st := range s.states {
		if _, ok := listed[id]; !ok && !st.Running {
			delete(s.states, id)
		}
	}

	s.mu.Unlock()

	for _, def := range launch {
		def := def
		s.inflight.Go(func() {
			s.run(ctx, def)
		})
	}

	if len(launch) > 0 {
		s.log.Debug("tick launched checks",
			slog.Int("launched", len(launch)),
			slog.Int("definitions", len(defs)),
		)
	}
}

// run executes def, hands the Result to the sink, then reschedules. The
// Result is published before the running flag clears so that results for
// one id reach the sink in completion order.
func (s *Scheduler) run(ctx context.Context, def domain.CheckDefinition) {
	result := s.executor.Execute(ctx, def)

	completedAt := result.Timestamp
	if completedAt.IsZero() {
		completedAt = s.now()
	}

	if ctx.Err() != nil {
		s.log.Debug("dropping result of check interrupted by shutdown", slog.String("id", def.ID))
		s.complete(def, completedAt)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	s.sink.Publish(pubCtx, result)
	cancel()

	s.complete(def, completedAt)
}

func (s *Scheduler) complete(def domain.CheckDefinition, completedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.draining, def.ID)

	st, ok := s.states[def.ID]
	if !ok {
		st = &ScheduleState{}
		s.states[def.ID] = st
	}

	st.Running = false
	st.NextEligibleAt = completedAt.Add(def.IntervalDuration())
}

func (s *Scheduler) HealthCheck(_ context.Context) error {
	if !s.isRunning.Load() {
		return fmt.Errorf("scheduler is not running")
	}
	return nil
}

// Status returns a snapshot of the schedule table sorted by id.
func (s *Scheduler) Status() domain.SchedulerStatus {
	s.mu.Lock()
	entries := make([]domain.ScheduleEntry, 0, len(s.states)+len(s.draining))
	for id, st := range s.states {
		_, draining := s.draining[id]
		entries = append(entries, domain.ScheduleEntry{
			ID:             id,
			NextEligibleAt: st.NextEligibleAt,
			Running:        st.Running || draining,
		})
	}
	for id := range s.draining {
		if _, ok := s.states[id]; !ok {
			entries = append(entries, domain.ScheduleEntry{ID: id, Running: true})
		}
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return domain.SchedulerStatus{
		Running:      s.isRunning.Load(),
		TickInterval: s.tickInterval.String(),
		Entries:      entries,
	}
}
