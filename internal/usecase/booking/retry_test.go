package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-booking/internal/domain/booking"
)

func TestWithStoreRetry(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	ctx := context.Background()

	t.Run("recovers after transient failures", func(t *testing.T) {
		calls := 0
		v, err := withStoreRetry(ctx, policy, quietLogger(), func() (int, error) {
			calls++
			if calls < 3 {
				return 0, domain.ErrStoreUnavailable(errors.New("timeout"))
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 3, calls)
	})

	t.Run("business errors stop at once", func(t *testing.T) {
		calls := 0
		_, err := withStoreRetry(ctx, policy, quietLogger(), func() (int, error) {
			calls++
			return 0, domain.ErrServiceNotFound
		})
		assert.ErrorIs(t, err, domain.ErrServiceNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts still tries once", func(t *testing.T) {
		calls := 0
		_, err := withStoreRetry(ctx, RetryPolicy{}, nil, func() (int, error) {
			calls++
			return 0, domain.ErrStoreUnavailable(errors.New("down"))
		})
		assert.True(t, domain.IsStoreUnavailable(err))
		assert.Equal(t, 1, calls)
	})
}
