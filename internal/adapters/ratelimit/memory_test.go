package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_LimitAndReset(t *testing.T) {
	l := NewMemoryLimiter(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "user:1")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "user:2")
	assert.True(t, ok, "keys are independent")

	l.Reset()
	assert.Equal(t, 0, l.Len())
	ok, _ = l.Allow(ctx, "user:1")
	assert.True(t, ok)
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	l := NewMemoryLimiter(10)
	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(context.Background(), "k"); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 10, allowed.Load())
}

func TestMemoryLimiter_Unlimited(t *testing.T) {
	l := NewMemoryLimiter(0)
	ok, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
