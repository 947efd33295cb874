//go:build !integration

package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("test error")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func testConfig() Config {
	return Config{
		Name:             "test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          time.Second,
		HalfOpenMaxCalls: 2,
	}
}

func newTestBreaker(t *testing.T, clock *fakeClock) *CircuitBreaker {
	t.Helper()
	cb, err := New(testConfig(), WithClock(clock.Now))
	require.NoError(t, err)
	return cb
}

func succeed(context.Context) error { return nil }

func fail(context.Context) error { return errTest }

func trip(t *testing.T, cb *CircuitBreaker) {
	t.Helper()
	for i := 0; i < cb.Config().FailureThreshold; i++ {
		err := cb.Execute(context.Background(), fail)
		require.ErrorIs(t, err, errTest)
	}
	require.Equal(t, StateOpen, cb.State())
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"failure threshold", func(c *Config) { c.FailureThreshold = 0 }},
		{"success threshold", func(c *Config) { c.SuccessThreshold = 0 }},
		{"timeout", func(c *Config) { c.Timeout = 0 }},
		{"half-open max calls", func(c *Config) { c.HalfOpenMaxCalls = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			cb, err := New(cfg)
			assert.Nil(t, cb)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestCircuitBreaker_Execute_Success(t *testing.T) {
	cb := newTestBreaker(t, newFakeClock())

	err := cb.Execute(context.Background(), succeed)

	assert.NoError(t, err)
	assert.True(t, cb.IsClosed())
	m := cb.Metrics()
	assert.Equal(t, int64(1), m.TotalCalls)
	assert.Equal(t, int64(1), m.SuccessfulCalls)
	assert.Equal(t, int64(0), m.FailedCalls)
}

func TestCircuitBreaker_Execute_FailurePassesThrough(t *testing.T) {
	cb := newTestBreaker(t, newFakeClock())

	err := cb.Execute(context.Background(), fail)

	assert.Equal(t, errTest, err)
	assert.True(t, cb.IsClosed(), "still under threshold")
	assert.Equal(t, int64(1), cb.Metrics().FailedCalls)
	assert.Equal(t, 1, cb.Metrics().FailureCount)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker(t, newFakeClock())
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, succeed)
	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)

	assert.True(t, cb.IsClosed())
	assert.Equal(t, 2, cb.Metrics().FailureCount)
}

func TestCircuitBreaker_OpensAndRejects(t *testing.T) {
	cb := newTestBreaker(t, newFakeClock())
	trip(t, cb)

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "operation must not run while open")

	m := cb.Metrics()
	assert.Equal(t, "open", m.State)
	assert.Equal(t, int64(1), m.RejectedCalls)
	assert.Equal(t, int64(3), m.FailedCalls)
	assert.Equal(t, int64(4), m.TotalCalls)
	assert.Equal(t, int64(1), m.StateTransitions["closed_to_open"])
	require.NotNil(t, m.OpenedAt)
	assert.False(t, m.IsHealthy)
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(t, clock)
	trip(t, cb)

	clock.Advance(999 * time.Millisecond)
	assert.ErrorIs(t, cb.Execute(context.Background(), succeed), ErrCircuitOpen)

	clock.Advance(time.Millisecond)
	result, err := Do(context.Background(), cb, func(context.Context) (string, error) {
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.True(t, cb.IsHalfOpen())
	assert.Equal(t, int64(1), cb.Metrics().StateTransitions["open_to_half_open"])
}

func TestCircuitBreaker_HalfOpenFailureRestartsTimeout(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(t, clock)
	trip(t, cb)

	clock.Advance(5 * time.Second)
	err := cb.Execute(context.Background(), fail)
	assert.ErrorIs(t, err, errTest)
	assert.True(t, cb.IsOpen())
	assert.Equal(t, clock.Now(), *cb.Metrics().OpenedAt)

	clock.Advance(500 * time.Millisecond)
	assert.ErrorIs(t, cb.Execute(context.Background(), succeed), ErrCircuitOpen)

	clock.Advance(500 * time.Millisecond)
	assert.NoError(t, cb.Execute(context.Background(), succeed))
	assert.True(t, cb.IsHalfOpen())

	m := cb.Metrics()
	assert.Equal(t, int64(1), m.StateTransitions["half_open_to_open"])
	assert.Equal(t, int64(2), m.StateTransitions["open_to_half_open"])
}

func TestCircuitBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(t, clock)
	trip(t, cb)
	clock.Advance(time.Second)

	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.True(t, cb.IsHalfOpen())
	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.True(t, cb.IsClosed())

	m := cb.Metrics()
	assert.Equal(t, int64(1), m.StateTransitions["half_open_to_closed"])
	assert.Equal(t, 0, m.FailureCount)
	assert.Equal(t, 0, m.SuccessCount)
	assert.Nil(t, m.OpenedAt)
}

func TestCircuitBreaker_FailureAfterOneSuccessReopens(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(t, clock)
	trip(t, cb)
	clock.Advance(time.Second)

	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errTest)
	assert.True(t, cb.IsOpen())
}

func TestCircuitBreaker_HalfOpenMaxCalls(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(t, clock)
	trip(t, cb)
	clock.Advance(time.Second)

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	slow := func(context.Context) error {
		started <- struct{}{}
		<-release
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = cb.Execute(context.Background(), slow)
		}(i)
	}
	<-started
	<-started

	err := cb.Execute(context.Background(), slow)
	assert.ErrorIs(t, err, ErrTooManyTrialCalls)
	assert.Equal(t, 2, cb.Metrics().HalfOpenInFlight)

	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	m := cb.Metrics()
	assert.Equal(t, "closed", m.State)
	assert.Equal(t, int64(1), m.RejectedCalls)
	assert.Equal(t, int64(2), m.SuccessfulCalls)
}

func TestCircuitBreaker_ConcurrentTrialsOneRejected(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(t, clock)
	trip(t, cb)
	clock.Advance(time.Second)

	release := make(chan struct{})
	var wg sync.WaitGroup
	results := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- cb.Execute(context.Background(), func(context.Context) error {
				<-release
				return nil
			})
		}()
	}

	// The rejected call returns without waiting on release.
	rejected := <-results
	assert.ErrorIs(t, rejected, ErrTooManyTrialCalls)

	close(release)
	wg.Wait()
	close(results)

	admitted := 0
	for err := range results {
		assert.NoError(t, err)
		admitted++
	}
	assert.Equal(t, 2, admitted)
}

func TestCircuitBreaker_StaleTrialDoesNotClose(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(t, clock)
	trip(t, cb)
	clock.Advance(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- cb.Execute(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	// A sibling trial fails and reopens the circuit while the first is in flight.
	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errTest)
	assert.True(t, cb.IsOpen())

	close(release)
	assert.NoError(t, <-done)

	m := cb.Metrics()
	assert.Equal(t, "open", m.State, "late success from an old generation is ignored")
	assert.Equal(t, 0, m.HalfOpenInFlight)
	assert.Equal(t, int64(1), m.SuccessfulCalls)
}

func TestCircuitBreaker_PanicReleasesTrialSlot(t *testing.T) {
	clock := newFakeClock()
	cfg := testConfig()
	cfg.HalfOpenMaxCalls = 1
	cb, err := New(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	trip(t, cb)
	clock.Advance(time.Second)

	assert.Panics(t, func() {
		_ = cb.Execute(context.Background(), func(context.Context) error {
			panic("boom")
		})
	})

	m := cb.Metrics()
	assert.Equal(t, "open", m.State, "panic counts as a failed trial")
	assert.Equal(t, 0, m.HalfOpenInFlight)

	clock.Advance(time.Second)
	assert.NoError(t, cb.Execute(context.Background(), succeed), "slot was released")
}

func TestCircuitBreaker_ConcurrentFailuresOpenOnce(t *testing.T) {
	cb := newTestBreaker(t, newFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(context.Background(), fail)
		}()
	}
	wg.Wait()

	m := cb.Metrics()
	assert.Equal(t, int64(1), m.StateTransitions["closed_to_open"])
	assert.Equal(t, int64(50), m.TotalCalls)
	assert.Equal(t, int64(50), m.FailedCalls+m.RejectedCalls)
}

func TestCircuitBreaker_Reset(t *testing.T) {
	clock := newFakeClock()
	cb := newTestBreaker(t, clock)
	trip(t, cb)

	cb.Reset()

	assert.True(t, cb.IsClosed())
	m := cb.Metrics()
	assert.Equal(t, 0, m.FailureCount)
	assert.Equal(t, int64(3), m.FailedCalls, "cumulative metrics survive reset")
	assert.Equal(t, int64(1), m.StateTransitions["open_to_closed"])
	assert.NoError(t, cb.Execute(context.Background(), succeed))
}

func TestCircuitBreaker_StateChangeHook(t *testing.T) {
	clock := newFakeClock()
	var transitions []string
	cb, err := New(testConfig(), WithClock(clock.Now), WithStateChangeHook(func(name string, from, to State) {
		transitions = append(transitions, name+":"+from.String()+"->"+to.String())
	}))
	require.NoError(t, err)

	trip(t, cb)
	clock.Advance(time.Second)
	_ = cb.Execute(context.Background(), succeed)
	_ = cb.Execute(context.Background(), succeed)

	assert.Equal(t, []string{
		"test:closed->open",
		"test:open->half_open",
		"test:half_open->closed",
	}, transitions)
}

func TestCircuitBreaker_RealTimeRecovery(t *testing.T) {
	cb, err := New(Config{
		Name:             "test",
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          50 * time.Millisecond,
		HalfOpenMaxCalls: 1,
	})
	require.NoError(t, err)

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(60 * time.Millisecond)

	assert.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 5, config.FailureThreshold)
	assert.Equal(t, 2, config.SuccessThreshold)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 1, config.HalfOpenMaxCalls)
	assert.NoError(t, config.Validate())
}
