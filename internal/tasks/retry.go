package tasks

import (
	"context"
	"time"
)

// RetryPolicy is an explicit retry policy value: attempt ceiling,
// exponential backoff schedule, and a predicate deciding which faults
// are worth retrying.
type RetryPolicy struct {
	MaxAttempts int                   // Total attempts, including the first
	BaseDelay   time.Duration         // Delay after the first failure
	MaxDelay    time.Duration         // Backoff cap; 0 means uncapped
	Retryable   func(err error) bool  // nil retries everything
}

// DefaultRetryPolicy mirrors the external services' tolerance: three
// attempts, doubling from one second.
func DefaultRetryPolicy(retryable func(error) bool) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Retryable:   retryable,
	}
}

// Do invokes fn until it succeeds, returns a non-retryable error, or
// the attempt ceiling is exhausted, in which case the last error is
// returned. Backoff sleeps are context-aware.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		if delay > 0 {
			if p.MaxDelay > 0 && delay > p.MaxDelay {
				delay = p.MaxDelay
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return err
}
