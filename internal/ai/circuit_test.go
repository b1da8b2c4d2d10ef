package ai

import (
	"testing"
	"time"
)

func TestCircuit_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
	}
	if !cb.Allow() {
		t.Fatal("should still allow below threshold")
	}

	cb.RecordFailure()
	if cb.Allow() {
		t.Fatal("should block after threshold failures")
	}
	if cb.State() != StateOpen {
		t.Errorf("expected open, got %s", cb.State())
	}
}

func TestCircuit_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)
	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()
	if !cb.Allow() {
		t.Fatal("success should have reset the failure count")
	}
}

func TestCircuit_HalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)
	cb.RecordFailure()
	if cb.Allow() {
		t.Fatal("expected open")
	}

	time.Sleep(15 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("expected half-open probe to be allowed")
	}
	if cb.State() != StateHalfOpen {
		t.Errorf("expected half_open, got %s", cb.State())
	}

	// Failed probe reopens.
	cb.RecordFailure()
	if cb.Allow() {
		t.Fatal("failed probe should reopen the circuit")
	}

	// Successful probe closes.
	time.Sleep(15 * time.Millisecond)
	cb.Allow()
	cb.RecordSuccess()
	if cb.State() != StateClosed {
		t.Errorf("expected closed after successful probe, got %s", cb.State())
	}
}
