package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/panics"

	"ozzus/pingdumb/internal/checks"
	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
)

const defaultKillGrace = 2 * time.Second

type ProbeRegistry interface {
	Get(kind domain.CheckKind) (checks.Probe, error)
}

// Engine runs one definition through its probe. Execute never fails: every
// outcome, including unknown kinds, timeouts and probe panics, becomes a Result.
type Engine struct {
	registry  ProbeRegistry
	log       *slog.Logger
	now       func() time.Time
	killGrace time.Duration
}

type EngineOption func(*Engine)

// WithKillGrace sets how long Execute waits for a cancelled probe to return.
func WithKillGrace(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.killGrace = d
		}
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(registry ProbeRegistry, log *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:  registry,
		log:       log.With(slog.String("component", "engine")),
		now:       time.Now,
		killGrace: defaultKillGrace,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type probeOutcome struct {
	payload interface{}
	err     error
}

func (e *Engine) Execute(ctx context.Context, def domain.CheckDefinition) domain.Result {
	start := time.Now()

	probe, err := e.registry.Get(def.Kind)
	if err != nil {
		return e.finish(def, start, nil, err)
	}

	opts := checks.OptionsFor(def)
	timeout := def.TimeoutDuration()
	if timeout <= 0 {
		timeout = domain.DefaultTimeout * time.Second
	}

	deadline := timeout
	if b, ok := probe.(checks.Budgeter); ok {
		if budget := b.Budget(timeout, opts); budget > deadline {
			deadline = budget
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	done := make(chan probeOutcome, 1)
	go func() {
		var out probeOutcome
		var pc panics.Catcher
		pc.Try(func() {
			out.payload, out.err = probe.Run(runCtx, def.Target, timeout, opts)
		})
		if r := pc.Recovered(); r != nil {
			out = probeOutcome{err: fmt.Errorf("probe panic: %v", r.Value)}
		}
		done <- out
	}()

	select {
	case out := <-done:
		if out.err != nil && runCtx.Err() != nil {
			return e.finish(def, start, nil, e.cancelled(ctx))
		}
		return e.finish(def, start, out.payload, out.err)
	case <-runCtx.Done():
	}

	// the Result reports the deadline, not the end of the grace period
	elapsed, completedAt := time.Since(start), e.now()
	err = e.cancelled(ctx)
	cancel()

	// the probe owns a process or connection; give it a moment to release it
	grace := time.NewTimer(e.killGrace)
	defer grace.Stop()

	select {
	case <-done:
	case <-grace.C:
		e.log.Warn("probe did not stop after cancellation",
			slog.String("id", def.ID),
			slog.String("kind", string(def.Kind)),
			slog.Duration("grace", e.killGrace),
		)
	}

	return e.result(def, elapsed, completedAt, nil, err)
}

// cancelled distinguishes the engine deadline from a shutdown of the parent context.
func (e *Engine) cancelled(parent context.Context) error {
	if err := parent.Err(); err != nil {
		return domain.NewInfrastructureError(fmt.Errorf("execution cancelled: %w", err))
	}
	return domain.ErrTimeout
}

func (e *Engine) finish(def domain.CheckDefinition, start time.Time, payload interface{}, err error) domain.Result {
	return e.result(def, time.Since(start), e.now(), payload, err)
}

func (e *Engine) result(def domain.CheckDefinition, elapsed time.Duration, completedAt time.Time, payload interface{}, err error) domain.Result {
	result := domain.Result{
		ConfigID:     def.ID,
		Timestamp:    completedAt,
		ResponseTime: elapsed.Seconds(),
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = domain.ErrTimeout
		}
		result.Error = err.Error()
		if result.Error == "" {
			result.Error = "unknown error"
		}

		e.log.Debug("check failed",
			slog.String("id", def.ID),
			slog.String("kind", string(def.Kind)),
			slog.String("error_kind", string(domain.KindOf(err))),
			sl.Err(err),
		)
		return result
	}

	result.Success = true
	result.Data = payload
	return result
}
