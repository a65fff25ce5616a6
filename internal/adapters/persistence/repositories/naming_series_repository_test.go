package repositories

import (
	"context"
	"sync"
	"testing"

	"eac-registry/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamingSeriesNext_Sequential(t *testing.T) {
	repo := NewNamingSeriesRepository(testutil.NewDB(t))
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.Next(ctx, "APL-MBR", 2025)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// series and years are independent
	got, err := repo.Next(ctx, "APL-ORG", 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = repo.Next(ctx, "APL-MBR", 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestNamingSeriesNext_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	repo := NewNamingSeriesRepository(testutil.NewDB(t))
	ctx := context.Background()

	const callers = 25
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]bool)
		errs []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.Next(ctx, "APP-MBR", 2025)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			seen[n] = true
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, seen, callers)
	for n := 1; n <= callers; n++ {
		assert.True(t, seen[n], "missing number %d", n)
	}
}
