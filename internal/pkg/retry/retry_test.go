package retry_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterStub struct{ n int64 }

func (c *counterStub) Inc() { atomic.AddInt64(&c.n, 1) }

func (c *counterStub) Count() int64 { return atomic.LoadInt64(&c.n) }

func fastConfig() retry.Config {
	return retry.Config{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, AttemptTimeout: time.Second}
}

func TestRunner_Do(t *testing.T) {
	t.Run("should retry once then succeed", func(t *testing.T) {
		ctr := &counterStub{}
		r := retry.NewRunner(fastConfig(), nil, ctr)
		calls := 0

		err := r.Do(t.Context(), "geo index nearest", func(context.Context) error {
			calls++
			if calls == 1 {
				return errors.New("connection reset")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, int64(1), ctr.Count())
	})

	t.Run("should wrap exhausted failure as infrastructure error", func(t *testing.T) {
		r := retry.NewRunner(fastConfig(), nil, nil)
		cause := errors.New("connection refused")
		calls := 0

		err := r.Do(t.Context(), "load order", func(context.Context) error {
			calls++
			return cause
		})

		assert.Equal(t, 2, calls)
		require.ErrorIs(t, err, errs.ErrInfrastructureFailed)
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "load order")
	})

	t.Run("domain errors are not retried", func(t *testing.T) {
		tests := []error{
			errs.NewObjectNotFoundError("order", "1"),
			errs.NewValueIsInvalidError("status"),
			errs.NewTransitionIsInvalidError("order", "delivered", "pending"),
			errs.NewStateIsStaleError("assignment", "1"),
		}
		for _, domainErr := range tests {
			r := retry.NewRunner(fastConfig(), nil, nil)
			calls := 0

			err := r.Do(t.Context(), "op", func(context.Context) error {
				calls++
				return domainErr
			})

			assert.Equal(t, 1, calls)
			require.ErrorIs(t, err, domainErr)
			assert.NotErrorIs(t, err, errs.ErrInfrastructureFailed)
		}
	})

	t.Run("each attempt is bounded by the attempt timeout", func(t *testing.T) {
		cfg := fastConfig()
		cfg.AttemptTimeout = 10 * time.Millisecond
		r := retry.NewRunner(cfg, nil, nil)

		err := r.Do(t.Context(), "slow query", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})

		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.ErrorIs(t, err, errs.ErrInfrastructureFailed)
	})

	t.Run("cancelled parent stops immediately", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		r := retry.NewRunner(fastConfig(), nil, nil)
		calls := 0

		err := r.Do(ctx, "op", func(ctx context.Context) error {
			calls++
			return ctx.Err()
		})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestValue(t *testing.T) {
	r := retry.NewRunner(fastConfig(), nil, nil)
	calls := 0

	got, err := retry.Value(t.Context(), r, "busy couriers", func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("timeout")
		}
		return []string{"a"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}
