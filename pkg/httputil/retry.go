package httputil

import (
	"context"
	"errors"
	"time"
)

// maxDelay caps the exponential backoff so a slow embedding backend does
// not push individual waits past a few seconds.
const maxDelay = 8 * time.Second

// RetryableError marks an error as transient. Callers wrap network timeouts
// and 5xx responses from the embedding backend with this type so that
// [Retry] attempts the request again instead of failing the whole scoring
// run.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay after each failure up
// to a fixed cap. Only errors wrapped in [RetryableError] are retried;
// anything else is returned as-is on the first occurrence. A cancelled
// context aborts the wait and returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		var retryable *RetryableError
		if !errors.As(err, &retryable) {
			return err
		}
		lastErr = err
		if attempt == attempts {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxDelay {
			delay = maxDelay
		}
	}
}
