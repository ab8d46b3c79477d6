package helpers

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryRead runs op with bounded exponential backoff. It is meant for
// idempotent reads only; errors wrapped with backoff.Permanent stop early.
func RetryRead[T any](ctx context.Context, tries uint, op func() (T, error)) (T, error) {
	if tries == 0 {
		tries = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	return backoff.Retry[T](ctx, backoff.Operation[T](op),
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithMaxElapsedTime(5*time.Second),
	)
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
