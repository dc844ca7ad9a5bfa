package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		l := NewLocalLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, "1.2.3.4")
			require.NoError(t, err)
			assert.True(t, ok, "attempt %d should be allowed", i+1)
		}

		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		l := NewLocalLimiter(1, time.Minute)

		ok, _ := l.Allow(ctx, "a")
		assert.True(t, ok)
		ok, _ = l.Allow(ctx, "a")
		assert.False(t, ok)

		ok, _ = l.Allow(ctx, "b")
		assert.True(t, ok)
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		l := NewLocalLimiter(1, time.Minute)
		current := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		l.now = func() time.Time { return current }

		ok, _ := l.Allow(ctx, "a")
		assert.True(t, ok)
		ok, _ = l.Allow(ctx, "a")
		assert.False(t, ok)

		current = current.Add(61 * time.Second)
		ok, _ = l.Allow(ctx, "a")
		assert.True(t, ok)
	})
}
