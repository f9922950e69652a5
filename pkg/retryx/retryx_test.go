package retryx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autovista-ai/autovista-backend/pkg/config"
)

func testPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestNewPolicyFillsDefaults(t *testing.T) {
	p := NewPolicy(config.RetryConfig{})
	if p.MaxAttempts != defaultMaxAttempts {
		t.Fatalf("expected default attempts, got %d", p.MaxAttempts)
	}
	if p.BaseDelay != defaultBaseDelay || p.MaxDelay != defaultMaxDelay {
		t.Fatalf("expected default delays, got %v/%v", p.BaseDelay, p.MaxDelay)
	}

	p = NewPolicy(config.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Millisecond})
	if p.MaxDelay != time.Second {
		t.Fatalf("max delay should be raised to base delay, got %v", p.MaxDelay)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsAtMaxAttempts(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Retryable(errors.New("still failing"))
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	permanent := errors.New("bad request")
	err := testPolicy(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("permanent errors should not retry, got %d calls", calls)
	}
}
