package features

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	id        int64
	destroyed atomic.Bool
}

type fakeFactory struct {
	next    atomic.Int64
	failAt  int64
	created []*fakeSession
	mu      sync.Mutex
}

func (f *fakeFactory) create() (*fakeSession, error) {
	id := f.next.Add(1)
	if f.failAt > 0 && id >= f.failAt {
		return nil, errors.New("no more sessions")
	}
	s := &fakeSession{id: id}
	f.mu.Lock()
	f.created = append(f.created, s)
	f.mu.Unlock()
	return s, nil
}

func destroyFake(s *fakeSession) { s.destroyed.Store(true) }

func TestSessionPool_AcquireRelease(t *testing.T) {
	f := &fakeFactory{}
	pool, err := NewSessionPool(2, f.create, destroyFake)
	require.NoError(t, err)
	defer pool.Close()

	ctx := context.Background()
	a, err := pool.Acquire(ctx)
	require.NoError(t, err)
	b, err := pool.Acquire(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.id, b.id)
	assert.Equal(t, 2, pool.Metrics().InUse)

	pool.Release(a)
	pool.Release(b)

	m := pool.Metrics()
	assert.Equal(t, 0, m.InUse)
	assert.Equal(t, int64(2), m.TotalAcquired)
	assert.Equal(t, int64(2), m.TotalReleased)
	assert.Equal(t, 2, pool.Size())
	assert.Equal(t, 2, m.Size)
}

func TestSessionPool_Timeout(t *testing.T) {
	f := &fakeFactory{}
	pool, err := NewSessionPool(1, f.create, destroyFake)
	require.NoError(t, err)
	defer pool.Close()
	pool.SetAcquireTimeout(20 * time.Millisecond)

	s, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer pool.Release(s)

	_, err = pool.Acquire(context.Background())
	require.ErrorIs(t, err, ErrAcquireTimeout)
	assert.Equal(t, int64(1), pool.Metrics().AcquireFailures)
}

func TestSessionPool_ContextCancelled(t *testing.T) {
	f := &fakeFactory{}
	pool, err := NewSessionPool(1, f.create, destroyFake)
	require.NoError(t, err)
	defer pool.Close()

	s, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer pool.Release(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pool.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSessionPool_InitFailureDestroysCreated(t *testing.T) {
	f := &fakeFactory{failAt: 3}
	_, err := NewSessionPool(4, f.create, destroyFake)
	require.Error(t, err)

	require.Len(t, f.created, 2)
	for _, s := range f.created {
		assert.True(t, s.destroyed.Load())
	}
}

func TestSessionPool_Discard(t *testing.T) {
	f := &fakeFactory{}
	pool, err := NewSessionPool(1, f.create, destroyFake)
	require.NoError(t, err)
	defer pool.Close()

	s, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	pool.Discard(s)
	assert.True(t, s.destroyed.Load())

	replacement, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, s.id, replacement.id)
	pool.Release(replacement)
}

func TestSessionPool_DiscardRecordsError(t *testing.T) {
	f := &fakeFactory{failAt: 2}
	pool, err := NewSessionPool(1, f.create, destroyFake)
	require.NoError(t, err)
	defer pool.Close()

	s, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	pool.Discard(s)

	require.Len(t, pool.LastErrors(), 1)
}

func TestSessionPool_Close(t *testing.T) {
	f := &fakeFactory{}
	pool, err := NewSessionPool(2, f.create, destroyFake)
	require.NoError(t, err)

	held, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	pool.Close()
	pool.Close()

	_, err = pool.Acquire(context.Background())
	require.ErrorIs(t, err, ErrPoolClosed)

	pool.Release(held)
	for _, s := range f.created {
		assert.True(t, s.destroyed.Load(), "session %d", s.id)
	}
}

func TestSessionPool_Concurrent(t *testing.T) {
	f := &fakeFactory{}
	pool, err := NewSessionPool(3, f.create, destroyFake)
	require.NoError(t, err)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := pool.Acquire(context.Background())
			if err != nil {
				t.Error(err)
				return
			}
			time.Sleep(time.Millisecond)
			pool.Release(s)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(30), pool.Metrics().TotalAcquired)
	assert.Equal(t, 0, pool.Metrics().InUse)
}
