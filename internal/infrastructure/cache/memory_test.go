package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-grader/internal/domain/entity"
)

func TestMemoryCache_PutGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	value := []byte(`{"grade":"A"}`)
	require.NoError(t, c.Put(ctx, "analysis:1", value, time.Hour))
	value[0] = 'X'

	got, err := c.Get(ctx, "analysis:1")
	require.NoError(t, err)
	assert.Equal(t, `{"grade":"A"}`, string(got))

	got[0] = 'Y'
	again, err := c.Get(ctx, "analysis:1")
	require.NoError(t, err)
	assert.Equal(t, `{"grade":"A"}`, string(again))
}

func TestMemoryCache_Miss(t *testing.T) {
	_, err := NewMemoryCache().Get(context.Background(), "nope")
	require.ErrorIs(t, err, entity.ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []byte("v"), time.Hour))

	now = now.Add(59 * time.Minute)
	_, err := c.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, entity.ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_RejectsNonPositiveTTL(t *testing.T) {
	require.Error(t, NewMemoryCache().Put(context.Background(), "k", []byte("v"), 0))
}

func TestMemoryCache_ConcurrentWriters(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k" + string(rune('a'+i%26))
			_ = c.Put(ctx, key, []byte{byte(i)}, time.Minute)
			_, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 26, c.Len())
}

func TestNoneCache(t *testing.T) {
	c := NoneCache{}
	require.NoError(t, c.Put(context.Background(), "k", nil, time.Hour))
	_, err := c.Get(context.Background(), "k")
	require.ErrorIs(t, err, entity.ErrCacheUnavailable)
	require.NoError(t, c.Close())
}
