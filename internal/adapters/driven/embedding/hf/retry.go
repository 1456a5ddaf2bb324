package hf

import (
	"context"
	"errors"
	"time"

	"github.com/praxis-labs/recall/internal/logger"
)

// BackoffPolicy describes how a fallible operation is retried: up to
// MaxAttempts tries with an exponentially growing, context-aware wait
// between them.
type BackoffPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is doubled after every attempt. With the 1s default the
	// waits are 2s, 4s, ... (2^attempt seconds).
	BaseDelay time.Duration
}

// Delay returns the wait after the given 1-based attempt.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay << attempt
}

// retryableError marks an error as transient. retryWithBackoff retries only
// errors carrying this marker; everything else is returned immediately.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retryable wraps err as transient.
func retryable(err error) error {
	return &retryableError{err: err}
}

// isRetryable reports whether err carries the transient marker.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// retryWithBackoff runs op up to policy.MaxAttempts times, sleeping between
// attempts according to the policy. Waits are cancellable: a cancelled
// context aborts immediately with ctx.Err(). Non-retryable errors are
// returned on first occurrence; the last transient error is returned once
// attempts are exhausted.
func retryWithBackoff(ctx context.Context, policy BackoffPolicy, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			if attempt > 1 {
				logger.Debug("embedding request succeeded on attempt %d", attempt)
			}
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.Delay(attempt)
		logger.Debug("embedding request failed (attempt %d/%d), retrying in %s: %v",
			attempt, policy.MaxAttempts, delay, lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
