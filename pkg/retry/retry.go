// Package retry provides retry logic with exponential backoff for transient failures.
//
// This package wraps github.com/cenkalti/backoff/v5 and integrates it with the
// logward error package: by default only errors.Temporary errors are retried, so a
// misconfigured remote store fails fast while an unreachable one keeps being probed.
// Exponential backoff with jitter avoids thundering-herd reconnects when multiple
// instances lose the remote store at the same time.
//
// Example usage:
//
//	cfg := retry.Config{
//		MaxAttempts:  8,
//		InitialDelay: 500 * time.Millisecond,
//		MaxDelay:     30 * time.Second,
//	}
//
//	err := retry.Do(ctx, cfg, func() error {
//		return connector.Ping(ctx)
//	})
package retry

import (
	"context"

	"github.com/cenkalti/backoff/v5"
)

// Do executes the provided function with retry logic based on the configuration.
// It respects context cancellation and applies exponential backoff between retries.
//
// Errors are retried according to the configured policy:
//   - PolicyTemporary: only retry errors.Temporary errors (default)
//   - PolicyAll: retry all errors
//   - PolicyNone: never retry (execute once)
//
// Returns the error from the last attempt if all retries are exhausted.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	cfg = cfg.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = cfg.Multiplier
	b.RandomizationFactor = cfg.Jitter

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
	}

	if cfg.MaxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(cfg.MaxAttempts))
	}

	if cfg.MaxElapsedTime > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(cfg.MaxElapsedTime))
	}

	// backoff.Retry requires Operation[T] which returns (T, error).
	// For Do (no return value), we use a dummy struct{} as T.
	operation := func() (struct{}, error) {
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}

		if !cfg.shouldRetry(err) {
			// Mark as permanent error to stop retrying
			return struct{}{}, backoff.Permanent(err)
		}

		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation, opts...)
	return err
}
