// Package retry runs an operation under a bounded retry policy.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffFunc returns the wait before the attempt following attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Policy struct {
	MaxAttempts int
	Backoff     BackoffFunc
	// Retryable decides whether err is worth another attempt. Nil retries nothing.
	Retryable func(err error) bool
	// Sleep defaults to a context-aware timer.
	Sleep SleepFunc
	// OnRetry is called before each backoff sleep.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do calls fn until it succeeds, fails with a non-retryable error, or the
// policy runs out of attempts. Non-retryable errors are returned unchanged.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	for attempt := 1; ; attempt++ {
		v, err := fn(ctx, attempt)
		if err == nil {
			return v, nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return zero, err
		}
		if attempt >= attempts {
			return zero, &ExhaustedError{Attempts: attempt, Last: err}
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}

// ExponentialJitter waits 2^attempt seconds plus a random fraction of a
// second drawn from jitter, which must return values in [0, 1).
func ExponentialJitter(jitter func() float64) BackoffFunc {
	if jitter == nil {
		jitter = rand.Float64
	}
	return func(attempt int) time.Duration {
		seconds := math.Pow(2, float64(attempt)) + jitter()
		return time.Duration(seconds * float64(time.Second))
	}
}

// Sleep waits for d unless ctx is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
