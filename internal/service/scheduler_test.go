package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/pingdumb/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeLister struct {
	mu   sync.Mutex
	defs []domain.CheckDefinition
	err  error
}

func (l *fakeLister) set(defs ...domain.CheckDefinition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs = defs
}

func (l *fakeLister) ListDefinitions(context.Context) ([]domain.CheckDefinition, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return append([]domain.CheckDefinition(nil), l.defs...), nil
}

type fakeExecutor struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, def domain.CheckDefinition) domain.Result
}

func (e *fakeExecutor) Execute(ctx context.Context, def domain.CheckDefinition) domain.Result {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	return e.fn(ctx, def)
}

func (e *fakeExecutor) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

type recordingSink struct {
	mu      sync.Mutex
	results []domain.Result
}

func (s *recordingSink) Publish(_ context.Context, r domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *recordingSink) Results() []domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Result(nil), s.results...)
}

type schedulerFixture struct {
	clock    *fakeClock
	lister   *fakeLister
	executor *fakeExecutor
	sink     *recordingSink
	sched    *Scheduler
}

func newSchedulerFixture(fn func(ctx context.Context, def domain.CheckDefinition) domain.Result) *schedulerFixture {
	f := &schedulerFixture{
		clock:    newFakeClock(),
		lister:   &fakeLister{},
		executor: &fakeExecutor{fn: fn},
		sink:     &recordingSink{},
	}
	f.sched = NewScheduler(f.lister, f.executor, f.sink, discardLogger(), SchedulerConfig{
		TickInterval: time.Hour,
		Now:          f.clock.Now,
	})
	return f
}

// failingNow returns an executor body whose results complete at the fake clock's now.
func (f *schedulerFixture) failingNow() func(context.Context, domain.CheckDefinition) domain.Result {
	return func(_ context.Context, def domain.CheckDefinition) domain.Result {
		return domain.Result{ConfigID: def.ID, Timestamp: f.clock.Now(), Error: "connection refused"}
	}
}

func (f *schedulerFixture) tickAndWait(ctx context.Context) {
	f.sched.tick(ctx)
	f.sched.inflight.Wait()
}

func (f *schedulerFixture) entry(id string) (domain.ScheduleEntry, bool) {
	for _, e := range f.sched.Status().Entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.ScheduleEntry{}, false
}

func TestSchedulerSingleFlight(t *testing.T) {
	release := make(chan struct{})
	f := newSchedulerFixture(nil)
	f.executor.fn = func(_ context.Context, def domain.CheckDefinition) domain.Result {
		<-release
		return domain.Result{ConfigID: def.ID, Timestamp: f.clock.Now(), Success: true}
	}
	f.lister.set(pingDef())

	ctx := context.Background()
	f.sched.tick(ctx)
	require.Eventually(t, func() bool { return f.executor.Calls() == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < 3; i++ {
		f.clock.Advance(time.Minute)
		f.sched.tick(ctx)
	}

	e, ok := f.entry("def-1")
	require.True(t, ok)
	assert.True(t, e.Running)

	close(release)
	f.sched.inflight.Wait()

	assert.Equal(t, 1, f.executor.Calls())
	assert.Len(t, f.sink.Results(), 1)
}

func TestSchedulerReschedulesAtCompletionPlusInterval(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = func(_ context.Context, def domain.CheckDefinition) domain.Result {
		// completion five seconds after launch
		return domain.Result{ConfigID: def.ID, Timestamp: f.clock.Now().Add(5 * time.Second), Success: true}
	}
	f.lister.set(pingDef())

	start := f.clock.Now()
	f.tickAndWait(context.Background())

	e, ok := f.entry("def-1")
	require.True(t, ok)
	assert.False(t, e.Running)
	assert.Equal(t, start.Add(35*time.Second), e.NextEligibleAt)
}

func TestSchedulerFailingCheckKeepsCadence(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = f.failingNow()
	f.lister.set(pingDef())

	ctx := context.Background()

	f.tickAndWait(ctx) // t=0
	f.clock.Advance(29 * time.Second)
	f.tickAndWait(ctx) // t=29, not yet eligible
	assert.Len(t, f.sink.Results(), 1)

	f.clock.Advance(time.Second)
	f.tickAndWait(ctx) // t=30
	f.clock.Advance(30 * time.Second)
	f.tickAndWait(ctx) // t=60

	results := f.sink.Results()
	require.Len(t, results, 3)
	for _, r := range results {
		assert.False(t, r.Success)
		assert.Equal(t, "def-1", r.ConfigID)
	}
}

func TestSchedulerSkipsDisabledDefinitions(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = f.failingNow()

	def := pingDef()
	def.Enabled = false
	f.lister.set(def)

	f.tickAndWait(context.Background())
	assert.Equal(t, 0, f.executor.Calls())
	_, ok := f.entry("def-1")
	assert.False(t, ok)
}

func TestSchedulerDisableMidFlight(t *testing.T) {
	release := make(chan struct{})
	f := newSchedulerFixture(nil)
	f.executor.fn = func(_ context.Context, def domain.CheckDefinition) domain.Result {
		<-release
		return domain.Result{ConfigID: def.ID, Timestamp: f.clock.Now(), Error: "timeout"}
	}

	def := pingDef()
	f.lister.set(def)

	ctx := context.Background()
	f.sched.tick(ctx)
	require.Eventually(t, func() bool { return f.executor.Calls() == 1 }, time.Second, 5*time.Millisecond)

	disabled := def
	disabled.Enabled = false
	f.lister.set(disabled)
	f.sched.NotifyDefinitionChanged(disabled)

	// re-enabling before the drain finishes must not start a second run
	f.lister.set(def)
	f.sched.NotifyDefinitionChanged(def)
	f.clock.Advance(time.Hour)
	f.sched.tick(ctx)
	assert.Equal(t, 1, f.executor.Calls())

	f.lister.set(disabled)
	f.sched.NotifyDefinitionChanged(disabled)

	completedAt := f.clock.Now()
	close(release)
	f.sched.inflight.Wait()

	require.Len(t, f.sink.Results(), 1)
	e, ok := f.entry("def-1")
	require.True(t, ok)
	assert.Equal(t, completedAt.Add(30*time.Second), e.NextEligibleAt)

	f.clock.Advance(time.Hour)
	f.tickAndWait(ctx)
	assert.Equal(t, 1, f.executor.Calls())

	// the entry recreated by the completion goes once the tick sees it disabled
	_, ok = f.entry("def-1")
	assert.False(t, ok)
	assert.Empty(t, f.sched.Status().Entries)
}

func TestSchedulerNotifyChangedKeepsPendingCountdown(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = f.failingNow()
	f.lister.set(pingDef())

	f.tickAndWait(context.Background())
	before, _ := f.entry("def-1")

	updated := pingDef()
	updated.Interval = 5
	f.sched.NotifyDefinitionChanged(updated)

	after, ok := f.entry("def-1")
	require.True(t, ok)
	assert.Equal(t, before.NextEligibleAt, after.NextEligibleAt)

	fresh := pingDef()
	fresh.ID = "def-2"
	f.sched.NotifyDefinitionChanged(fresh)
	e, ok := f.entry("def-2")
	require.True(t, ok)
	assert.Equal(t, f.clock.Now(), e.NextEligibleAt)
}

func TestSchedulerNotifyDeleted(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = f.failingNow()
	f.lister.set(pingDef())

	f.tickAndWait(context.Background())
	_, ok := f.entry("def-1")
	require.True(t, ok)

	f.sched.NotifyDefinitionDeleted("def-1")
	_, ok = f.entry("def-1")
	assert.False(t, ok)
}

func TestSchedulerPrunesVanishedDefinitions(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = f.failingNow()
	f.lister.set(pingDef())

	f.tickAndWait(context.Background())
	f.lister.set()
	f.tickAndWait(context.Background())

	assert.Empty(t, f.sched.Status().Entries)
}

func TestSchedulerListErrorDoesNotStopLoop(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = f.failingNow()
	f.lister.err = errors.New("connection reset by peer")

	f.tickAndWait(context.Background())
	assert.Equal(t, 0, f.executor.Calls())

	f.lister.mu.Lock()
	f.lister.err = nil
	f.lister.defs = []domain.CheckDefinition{pingDef()}
	f.lister.mu.Unlock()

	f.tickAndWait(context.Background())
	assert.Equal(t, 1, f.executor.Calls())
}

func TestSchedulerLaunchesDefinitionsConcurrently(t *testing.T) {
	started := make(chan string, 2)
	release := make(chan struct{})
	f := newSchedulerFixture(nil)
	f.executor.fn = func(_ context.Context, def domain.CheckDefinition) domain.Result {
		started <- def.ID
		<-release
		return domain.Result{ConfigID: def.ID, Timestamp: f.clock.Now(), Success: true}
	}

	a, b := pingDef(), pingDef()
	b.ID = "def-2"
	f.lister.set(a, b)

	f.sched.tick(context.Background())

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-started:
			got[id] = true
		case <-time.After(time.Second):
			t.Fatal("second definition was not launched while the first was running")
		}
	}
	close(release)
	f.sched.inflight.Wait()

	assert.Equal(t, map[string]bool{"def-1": true, "def-2": true}, got)
}

func TestSchedulerDropsResultsOnShutdown(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = func(ctx context.Context, def domain.CheckDefinition) domain.Result {
		<-ctx.Done()
		return domain.Result{ConfigID: def.ID, Timestamp: f.clock.Now(), Error: "execution cancelled: context canceled"}
	}
	f.lister.set(pingDef())

	ctx, cancel := context.WithCancel(context.Background())
	f.sched.tick(ctx)
	cancel()
	f.sched.inflight.Wait()

	assert.Empty(t, f.sink.Results())
	e, ok := f.entry("def-1")
	require.True(t, ok)
	assert.False(t, e.Running)
}

func TestSchedulerStartLifecycle(t *testing.T) {
	f := newSchedulerFixture(nil)
	f.executor.fn = f.failingNow()
	f.lister.set(pingDef())

	require.Error(t, f.sched.HealthCheck(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.sched.Start(ctx) }()

	require.Eventually(t, func() bool {
		return f.sched.HealthCheck(context.Background()) == nil && len(f.sink.Results()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, f.sched.Start(context.Background()), errAlreadyStarted)
	assert.True(t, f.sched.Status().Running)
	assert.Equal(t, "1h0m0s", f.sched.Status().TickInterval)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Error(t, f.sched.HealthCheck(context.Background()))
}
