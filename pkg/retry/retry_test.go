package retry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mfranco-dev/tienda/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fastConfig(maxAttempts int) retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts: maxAttempts,
		Backoff:     retry.LinearBackoff(time.Millisecond),
	}
}

func TestDo(t *testing.T) {

	t.Run("SucceedsFirstTry", func(t *testing.T) {
		calls := 0
		err := retry.Do(t.Context(), fastConfig(3), func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("RetriesUntilSuccess", func(t *testing.T) {
		calls := 0
		err := retry.Do(t.Context(), fastConfig(3), func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		calls := 0
		err := retry.Do(t.Context(), fastConfig(3), func() error {
			calls++
			return errTransient
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("NonRetryableStopsImmediately", func(t *testing.T) {
		permanent := errors.New("permanent")
		cfg := fastConfig(5)
		cfg.ShouldRetry = func(err error) bool {
			return !errors.Is(err, permanent)
		}

		calls := 0
		err := retry.Do(t.Context(), cfg, func() error {
			calls++
			return permanent
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := retry.DoWithResult(
		t.Context(), fastConfig(3), func() (string, error) {
			calls++
			if calls < 2 {
				return "", errTransient
			}
			return "done", nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}
