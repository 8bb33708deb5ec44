// ABOUTME: Retry policy for transient transport failures
// ABOUTME: Linear backoff of attempt number times the configured delay

package client

import (
	"context"
	"time"
)

// attempt describes one try of a logical request. Values are never
// mutated; the loop moves on with next().
type attempt struct {
	number int
}

func firstAttempt() attempt {
	return attempt{number: 1}
}

func (a attempt) next() attempt {
	return attempt{number: a.number + 1}
}

// canRetry reports whether another try fits in maxRetries retries.
func (a attempt) canRetry(maxRetries int) bool {
	return a.number-1 < maxRetries
}

// backoff is the wait after this attempt fails.
func (a attempt) backoff(base time.Duration) time.Duration {
	return time.Duration(a.number) * base
}

// shouldRetry is false once the caller's context is done, whatever err is.
func shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return IsTransient(err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
