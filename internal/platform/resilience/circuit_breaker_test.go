package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, timeout time.Duration, probes int) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(threshold, timeout, probes)
	now := time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_OpenHalfOpenClosed(t *testing.T) {
	b, now := newTestBreaker(2, 30*time.Minute, 1)

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("one failure below threshold, got %s", state)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open at threshold, got %s", state)
	}

	err := b.Allow()
	var open *OpenError
	if !errors.As(err, &open) || !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected *OpenError matching ErrCircuitOpen, got %v", err)
	}
	if want := now.Add(30 * time.Minute); !open.RetryAt.Equal(want) {
		t.Fatalf("retry at %s, want %s", open.RetryAt, want)
	}

	*now = now.Add(30 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe after timeout, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second probe must wait, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after probe success, got %s", state)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute, 1)

	b.RecordFailure()
	*now = now.Add(time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe, got %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected reopened breaker, got %s", state)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute, 1)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("failures must be consecutive, got %s", state)
	}
}

func TestCircuitBreaker_RunOpensAfterFailures(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})

	var transitions []CircuitState
	b.OnStateChange(func(_, to CircuitState) { transitions = append(transitions, to) })

	boom := errors.New("scoring batch failed")
	calls := 0
	job := func(context.Context) error {
		calls++
		return boom
	}

	for i := 0; i < 2; i++ {
		if err := b.Run(context.Background(), job); !errors.Is(err, boom) {
			t.Fatalf("run %d: expected job error, got %v", i, err)
		}
	}
	if err := b.Run(context.Background(), job); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit to skip the job, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected job to run twice, ran %d times", calls)
	}
	if len(transitions) != 1 || transitions[0] != CircuitStateOpen {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
}

func TestCircuitBreaker_RunIgnoresCancellation(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Run(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected cancellation to leave breaker closed, got %s", state)
	}
}

func TestCircuitBreaker_NilAllowsEverything(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker for disabled config")
	}

	for i := 0; i < 5; i++ {
		if err := b.Run(context.Background(), func(context.Context) error { return errors.New("fail") }); errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("nil breaker must never open")
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed state from nil breaker, got %s", state)
	}
}

func TestCircuitBreakerConfig_Validate(t *testing.T) {
	valid := CircuitBreakerConfig{Enabled: true, FailureThreshold: 3, OpenTimeout: 30 * time.Minute, HalfOpenMaxReq: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if err := (CircuitBreakerConfig{}).Validate(); err != nil {
		t.Fatalf("disabled config must validate, got %v", err)
	}

	for name, mutate := range map[string]func(*CircuitBreakerConfig){
		"failures":  func(c *CircuitBreakerConfig) { c.FailureThreshold = 0 },
		"timeout":   func(c *CircuitBreakerConfig) { c.OpenTimeout = 0 },
		"half-open": func(c *CircuitBreakerConfig) { c.HalfOpenMaxReq = 0 },
	} {
		cfg := valid
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
