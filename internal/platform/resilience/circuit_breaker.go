package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// OpenError is returned while the breaker rejects calls. It matches
// ErrCircuitOpen with errors.Is.
type OpenError struct {
	RetryAt time.Time
}

func (e *OpenError) Error() string {
	if e.RetryAt.IsZero() {
		return ErrCircuitOpen.Error()
	}
	return fmt.Sprintf("%s until %s", ErrCircuitOpen, e.RetryAt.UTC().Format(time.RFC3339))
}

func (e *OpenError) Is(target error) bool { return target == ErrCircuitOpen }

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig is loaded from the <PREFIX>_ENABLED,
// _FAILURE_COUNT, _OPEN_TIMEOUT and _HALF_OPEN_MAX_REQ variables.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// Validate rejects an enabled config that NewCircuitBreaker would clamp.
func (c CircuitBreakerConfig) Validate() error {
	switch {
	case !c.Enabled:
		return nil
	case c.FailureThreshold < 1:
		return fmt.Errorf("failure count must be >= 1, got %d", c.FailureThreshold)
	case c.OpenTimeout <= 0:
		return fmt.Errorf("open timeout must be > 0, got %s", c.OpenTimeout)
	case c.HalfOpenMaxReq < 1:
		return fmt.Errorf("half-open max requests must be >= 1, got %d", c.HalfOpenMaxReq)
	}
	return nil
}

// CircuitBreaker skips a job after FailureThreshold consecutive failures.
// After OpenTimeout it lets up to HalfOpenMaxReq probes through; that many
// successes close it, one failure opens it again.
type CircuitBreaker struct {
	mu       sync.Mutex
	limits   CircuitBreakerConfig
	now      func() time.Time
	onChange func(from, to CircuitState)

	state    CircuitState
	failures int
	openedAt time.Time
	probing  int
	passed   int
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	limits := CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: max(failureThreshold, 1),
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   max(halfOpenMaxReq, 1),
	}
	if limits.OpenTimeout <= 0 {
		limits.OpenTimeout = time.Minute
	}
	return &CircuitBreaker{limits: limits, now: time.Now, state: CircuitStateClosed}
}

// NewCircuitBreakerFromConfig returns nil when cfg is disabled. A nil
// breaker allows every call.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq)
}

// OnStateChange registers fn for state transitions. fn runs under the
// breaker lock and must not call back into it.
func (b *CircuitBreaker) OnStateChange(fn func(from, to CircuitState)) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Run calls fn when allowed and records its outcome. An error caused by
// ctx ending is neither a success nor a failure.
func (b *CircuitBreaker) Run(ctx context.Context, fn func(context.Context) error) error {
	if b == nil {
		return fn(ctx)
	}
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn(ctx)
	switch {
	case err == nil:
		b.RecordSuccess()
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		b.mu.Lock()
		b.endProbe()
		b.mu.Unlock()
	default:
		b.RecordFailure()
	}
	return err
}

// Allow reserves a call. It returns an *OpenError when the call must be skipped.
func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh()
	switch b.state {
	case CircuitStateOpen:
		return &OpenError{RetryAt: b.openedAt.Add(b.limits.OpenTimeout)}
	case CircuitStateHalfOpen:
		if b.probing+b.passed >= b.limits.HalfOpenMaxReq {
			return &OpenError{}
		}
		b.probing++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != CircuitStateHalfOpen {
		b.failures = 0
		return
	}
	b.endProbe()
	b.passed++
	if b.passed >= b.limits.HalfOpenMaxReq && b.probing == 0 {
		b.moveTo(CircuitStateClosed)
	}
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.limits.FailureThreshold {
			b.moveTo(CircuitStateOpen)
		}
	default:
		b.moveTo(CircuitStateOpen)
	}
}

func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

// refresh moves an open breaker to half-open once its timeout passed.
func (b *CircuitBreaker) refresh() {
	if b.state == CircuitStateOpen && !b.now().Before(b.openedAt.Add(b.limits.OpenTimeout)) {
		b.moveTo(CircuitStateHalfOpen)
	}
}

func (b *CircuitBreaker) endProbe() {
	if b.state == CircuitStateHalfOpen && b.probing > 0 {
		b.probing--
	}
}

// moveTo resets the counters of the state being entered. Re-entering open
// restarts the timeout.
func (b *CircuitBreaker) moveTo(to CircuitState) {
	from := b.state
	b.state = to
	b.failures, b.probing, b.passed = 0, 0, 0
	b.openedAt = time.Time{}
	if to == CircuitStateOpen {
		b.openedAt = b.now()
	}
	if from != to && b.onChange != nil {
		b.onChange(from, to)
	}
}
