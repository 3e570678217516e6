package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"sharpPicks/domain"
)

func TestRetryPolicy_AttemptTimeoutIsTransient(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, AttemptTimeout: 10 * time.Millisecond}

	calls := 0
	attempts, err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestRetryPolicy_StopsOnNonRetryable(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5}
	fatal := &domain.ToolLayerError{Op: "call", Retryable: false, Err: errors.New("400")}

	attempts, err := policy.Do(context.Background(), func(ctx context.Context) error { return fatal })
	if !errors.Is(err, fatal) || attempts != 1 {
		t.Fatalf("attempts %d err %v", attempts, err)
	}
}

func TestRetryPolicy_PlainErrorsAreNotRetried(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3}

	calls := 0
	_, err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})
	if err == nil || calls != 1 {
		t.Fatalf("calls %d err %v", calls, err)
	}
}

func TestRetryPolicy_CancelDuringBackoff(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, InitialDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := policy.Do(ctx, func(ctx context.Context) error {
			calls++
			return &domain.ToolLayerError{Op: "call", Retryable: true, Err: errors.New("503")}
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancel")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryPolicy_BackoffIsCapped(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 4, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	start := time.Now()
	attempts, err := policy.Do(context.Background(), func(ctx context.Context) error {
		return &domain.ToolLayerError{Op: "call", Retryable: true, Err: errors.New("503")}
	})
	if err == nil || attempts != 4 {
		t.Fatalf("attempts %d err %v", attempts, err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("backoff not capped: %s", elapsed)
	}
}
