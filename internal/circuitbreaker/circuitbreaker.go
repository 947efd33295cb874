// Package circuitbreaker provides circuit breaker pattern implementation for resilience.
package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrCircuitOpen is returned when the circuit breaker is open and the call was not attempted.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrTooManyTrialCalls is returned when the half-open trial capacity is exhausted.
	ErrTooManyTrialCalls = errors.New("circuit breaker is half-open: max trial calls reached")
	// ErrInvalidConfig indicates unusable circuit breaker settings.
	ErrInvalidConfig = errors.New("invalid circuit breaker configuration")
	// ErrPanic wraps a panic raised by a protected operation.
	ErrPanic = errors.New("protected operation panicked")
)

// State represents the state of the circuit breaker.
type State int

const (
	// StateClosed means the circuit is closed and requests pass through normally.
	StateClosed State = iota
	// StateOpen means the circuit is open and requests are rejected immediately.
	StateOpen
	// StateHalfOpen means the circuit is half-open, allowing a bounded number of trial requests.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// Name is the name of the circuit breaker (for logging and metrics).
	Name string
	// FailureThreshold is the number of consecutive failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive half-open successes needed to close the circuit.
	SuccessThreshold int
	// Timeout is the duration to wait before attempting to half-open the circuit.
	Timeout time.Duration
	// HalfOpenMaxCalls bounds the trial calls in flight while half-open.
	HalfOpenMaxCalls int
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		Name:             "circuit-breaker",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 1,
	}
}

// Validate checks that all thresholds are usable.
func (c Config) Validate() error {
	switch {
	case c.FailureThreshold < 1:
		return fmt.Errorf("%w: failure threshold must be at least 1", ErrInvalidConfig)
	case c.SuccessThreshold < 1:
		return fmt.Errorf("%w: success threshold must be at least 1", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	case c.HalfOpenMaxCalls < 1:
		return fmt.Errorf("%w: half-open max calls must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// StateChangeFunc is notified after every state transition.
type StateChangeFunc func(name string, from, to State)

// Option configures a CircuitBreaker.
type Option func(*CircuitBreaker)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(cb *CircuitBreaker) {
		if now != nil {
			cb.now = now
		}
	}
}

// WithStateChangeHook registers fn to be called after each transition.
// fn runs while the breaker lock is held and must not call back into the breaker.
func WithStateChangeHook(fn StateChangeFunc) Option {
	return func(cb *CircuitBreaker) {
		cb.onStateChange = fn
	}
}

// CircuitBreaker implements the circuit breaker pattern.
type CircuitBreaker struct {
	config        Config
	now           func() time.Time
	onStateChange StateChangeFunc

	mu           sync.Mutex
	state        State
	generation   uint64
	failureCount int
	successCount int
	openedAt     time.Time
	inFlight     int
	counts       counts
}

type counts struct {
	total       int64
	successful  int64
	failed      int64
	rejected    int64
	transitions map[string]int64
}

// permit is an admission ticket stamped with the generation it was issued in.
type permit struct {
	generation uint64
	state      State
}

// New creates a new circuit breaker with the given configuration.
func New(config Config, opts ...Option) (*CircuitBreaker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cb := &CircuitBreaker{
		config: config,
		now:    time.Now,
		state:  StateClosed,
		counts: counts{transitions: make(map[string]int64)},
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb, nil
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Config returns the breaker configuration.
func (cb *CircuitBreaker) Config() Config {
	return cb.config
}

// Execute runs fn with circuit breaker protection.
// It returns ErrCircuitOpen or ErrTooManyTrialCalls when the call is rejected,
// otherwise the error returned by fn, unchanged.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) (err error) {
	p, err := cb.admit()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			cb.settle(p, fmt.Errorf("%w: %v", ErrPanic, r))
			panic(r)
		}
		cb.settle(p, err)
	}()

	return fn(ctx)
}

// Do runs fn through cb and returns its result.
func Do[T any](ctx context.Context, cb *CircuitBreaker, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}

// admit decides whether a call may run and reserves a trial slot when half-open.
func (cb *CircuitBreaker) admit() (permit, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.counts.total++

	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.config.Timeout {
			cb.counts.rejected++
			return permit{}, ErrCircuitOpen
		}
		cb.transition(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		if cb.inFlight >= cb.config.HalfOpenMaxCalls {
			cb.counts.rejected++
			return permit{}, ErrTooManyTrialCalls
		}
		cb.inFlight++
	}

	return permit{generation: cb.generation, state: cb.state}, nil
}

// settle records the outcome of an admitted call and releases its trial slot.
func (cb *CircuitBreaker) settle(p permit, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.counts.failed++
	} else {
		cb.counts.successful++
	}

	// A transition happened since admission; the outcome is stale.
	if p.generation != cb.generation {
		return
	}

	if p.state == StateHalfOpen {
		cb.inFlight--
	}

	if err != nil {
		cb.onFailure()
		return
	}
	cb.onSuccess()
}

// onFailure handles a failure.
func (cb *CircuitBreaker) onFailure() {
	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.config.FailureThreshold {
			log.Warn().
				Str("circuit_breaker", cb.config.Name).
				Int("failure_count", cb.failureCount).
				Msg("Circuit breaker opened due to failures")
			cb.transition(StateOpen)
		}
	case StateHalfOpen:
		// Any failure in half-open state immediately opens the circuit
		log.Warn().
			Str("circuit_breaker", cb.config.Name).
			Msg("Circuit breaker reopened after half-open failure")
		cb.transition(StateOpen)
	}
}

// onSuccess handles a success.
func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failureCount = 0
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			log.Info().
				Str("circuit_breaker", cb.config.Name).
				Msg("Circuit breaker closed after successful recovery")
			cb.transition(StateClosed)
		}
	}
}

// transition moves to the given state, resets runtime counters and starts a new generation.
// Callers must hold cb.mu.
func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	cb.state = to
	cb.generation++
	cb.failureCount = 0
	cb.successCount = 0
	cb.inFlight = 0

	switch to {
	case StateOpen:
		cb.openedAt = cb.now()
	case StateClosed:
		cb.openedAt = time.Time{}
	}

	cb.counts.transitions[from.String()+"_to_"+to.String()]++

	if to == StateHalfOpen {
		log.Info().
			Str("circuit_breaker", cb.config.Name).
			Msg("Circuit breaker transitioning to half-open")
	}
	if cb.onStateChange != nil {
		cb.onStateChange(cb.config.Name, from, to)
	}
}

// Reset forces the breaker closed and clears its runtime counters.
// Cumulative call metrics are kept.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateClosed {
		log.Info().
			Str("circuit_breaker", cb.config.Name).
			Str("from", cb.state.String()).
			Msg("Circuit breaker manually reset")
		cb.transition(StateClosed)
		return
	}
	cb.generation++
	cb.failureCount = 0
	cb.successCount = 0
	cb.inFlight = 0
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsOpen returns true if the circuit breaker is open.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// IsClosed returns true if the circuit breaker is closed.
func (cb *CircuitBreaker) IsClosed() bool {
	return cb.State() == StateClosed
}

// IsHalfOpen returns true if the circuit breaker is half-open.
func (cb *CircuitBreaker) IsHalfOpen() bool {
	return cb.State() == StateHalfOpen
}

// Metrics is a point-in-time snapshot of a circuit breaker.
type Metrics struct {
	Name             string           `json:"name"`
	State            string           `json:"state"`
	TotalCalls       int64            `json:"total_calls"`
	SuccessfulCalls  int64            `json:"successful_calls"`
	FailedCalls      int64            `json:"failed_calls"`
	RejectedCalls    int64            `json:"rejected_calls"`
	StateTransitions map[string]int64 `json:"state_transitions"`
	FailureCount     int              `json:"failure_count"`
	SuccessCount     int              `json:"success_count"`
	HalfOpenInFlight int              `json:"half_open_in_flight"`
	OpenedAt         *time.Time       `json:"opened_at,omitempty"`
	IsHealthy        bool             `json:"is_healthy"`
}

// Metrics returns current circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() Metrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	transitions := make(map[string]int64, len(cb.counts.transitions))
	for k, v := range cb.counts.transitions {
		transitions[k] = v
	}

	m := Metrics{
		Name:             cb.config.Name,
		State:            cb.state.String(),
		TotalCalls:       cb.counts.total,
		SuccessfulCalls:  cb.counts.successful,
		FailedCalls:      cb.counts.failed,
		RejectedCalls:    cb.counts.rejected,
		StateTransitions: transitions,
		FailureCount:     cb.failureCount,
		SuccessCount:     cb.successCount,
		HalfOpenInFlight: cb.inFlight,
		IsHealthy:        cb.state == StateClosed,
	}
	if !cb.openedAt.IsZero() {
		openedAt := cb.openedAt
		m.OpenedAt = &openedAt
	}
	return m
}
