package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Retry executes the function with automatic retries and exponential backoff.
func Retry(ctx context.Context, cfg RetryConfig, fn Executor) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 100 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = func(err error) bool { return err != nil }
	}

	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		// Check context before each attempt
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Execute
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		// Check if we should retry
		if !cfg.RetryIf(err) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		sleepDuration := ExponentialBackoff(attempt, cfg.InitialBackoff, cfg.MaxBackoff, cfg.Multiplier, cfg.Jitter)

		// Sleep with context cancellation support
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepDuration):
		}
	}

	return lastErr
}

// ExponentialBackoff calculates the backoff duration for a given attempt
// number: base * multiplier^attempt, jittered and capped at max.
func ExponentialBackoff(attempt int, base time.Duration, max time.Duration, multiplier float64, jitter float64) time.Duration {
	backoff := float64(base) * math.Pow(multiplier, float64(attempt))

	if jitter > 0 {
		backoff *= 1.0 + (rand.Float64()*2-1)*jitter
	}

	if time.Duration(backoff) > max {
		return max
	}

	return time.Duration(backoff)
}

// WithTimeout wraps a function with a timeout.
func WithTimeout(timeout time.Duration, fn Executor) Executor {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(ctx)
	}
}
