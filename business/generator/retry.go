package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sharpPicks/domain"
)

// RetryPolicy retries transient tool-layer failures with exponential backoff.
// Each attempt gets its own timeout; an attempt timeout counts as transient.
type RetryPolicy struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	AttemptTimeout time.Duration
}

// Do returns the number of attempts made and the final error, if any.
func (r RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	delay := r.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := r.attempt(ctx, fn)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return attempt, fmt.Errorf("context error: %w", ctx.Err())
		}
		if !isTransient(err) {
			return attempt, err
		}
		if attempt == maxAttempts {
			break
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return attempt, fmt.Errorf("context error: %w", ctx.Err())
			case <-timer.C:
			}
		}

		delay *= 2
		if r.MaxDelay > 0 && delay > r.MaxDelay {
			delay = r.MaxDelay
		}
	}

	return maxAttempts, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

func (r RetryPolicy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.AttemptTimeout <= 0 {
		return fn(ctx)
	}

	actx, cancel := context.WithTimeout(ctx, r.AttemptTimeout)
	defer cancel()

	err := fn(actx)
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		return &domain.ToolLayerError{Op: "timeout", Retryable: true, Err: err}
	}
	return err
}

func isTransient(err error) bool {
	return domain.IsRetryable(err)
}
