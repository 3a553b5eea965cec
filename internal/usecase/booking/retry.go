package booking

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
)

// RetryPolicy bounds how often a write is replayed after the store became
// unavailable. Attempts counts the first try.
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:        3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// withStoreRetry replays op only while it fails with store_unavailable.
// Business errors (conflicts included) stop the loop at once.
func withStoreRetry[T any](
	ctx context.Context,
	policy RetryPolicy,
	log *logrus.Logger,
	op func() (T, error),
) (T, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		b.MaxInterval = policy.MaxInterval
	}

	return backoff.Retry[T](ctx, func() (T, error) {
		v, err := op()
		if err != nil && !domain.IsStoreUnavailable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			if log != nil {
				log.WithError(err).WithField("retry_in", wait.String()).Warn("store unavailable, retrying")
			}
		}),
	)
}
