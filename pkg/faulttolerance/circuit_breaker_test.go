package faulttolerance

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:      3,
		Cooldown:         50 * time.Millisecond,
		SuccessThreshold: 2,
		Name:             "test",
	}
}

func failingCall() error {
	return errors.New("upstream failure")
}

func succeedingCall() error {
	return nil
}

func TestCircuitBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig(), testLogger())

	for i := 0; i < 10; i++ {
		if err := cb.Execute(context.Background(), succeedingCall); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED, got %v", cb.State())
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig(), testLogger())

	for i := 0; i < 3; i++ {
		cb.Execute(context.Background(), failingCall)
	}

	if cb.State() != StateOpen {
		t.Fatalf("Expected OPEN after 3 failures, got %v", cb.State())
	}

	err := cb.Execute(context.Background(), func() error {
		t.Fatal("Function should not be invoked while breaker is open")
		return nil
	})
	if !errors.Is(err, ErrCircuitBreakerOpen) {
		t.Errorf("Expected ErrCircuitBreakerOpen, got %v", err)
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig(), testLogger())

	cb.Execute(context.Background(), failingCall)
	cb.Execute(context.Background(), failingCall)
	cb.Execute(context.Background(), succeedingCall)
	cb.Execute(context.Background(), failingCall)
	cb.Execute(context.Background(), failingCall)

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after interleaved success, got %v", cb.State())
	}
}

func TestCircuitBreakerHalfOpenAfterCooldown(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig(), testLogger())

	for i := 0; i < 3; i++ {
		cb.Execute(context.Background(), failingCall)
	}
	if cb.State() != StateOpen {
		t.Fatalf("Expected OPEN, got %v", cb.State())
	}

	time.Sleep(60 * time.Millisecond)

	invoked := false
	cb.Execute(context.Background(), func() error {
		invoked = true
		return nil
	})

	if !invoked {
		t.Fatal("Expected probe call to pass through after cooldown")
	}
	if cb.State() != StateHalfOpen {
		t.Errorf("Expected HALF_OPEN after first probe, got %v", cb.State())
	}
}

func TestCircuitBreakerClosesAfterSuccessThreshold(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig(), testLogger())

	for i := 0; i < 3; i++ {
		cb.Execute(context.Background(), failingCall)
	}
	time.Sleep(60 * time.Millisecond)

	cb.Execute(context.Background(), succeedingCall)
	cb.Execute(context.Background(), succeedingCall)

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after success threshold, got %v", cb.State())
	}
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig(), testLogger())

	for i := 0; i < 3; i++ {
		cb.Execute(context.Background(), failingCall)
	}
	time.Sleep(60 * time.Millisecond)

	cb.Execute(context.Background(), failingCall)

	if cb.State() != StateOpen {
		t.Errorf("Expected OPEN after half-open probe failure, got %v", cb.State())
	}
}
