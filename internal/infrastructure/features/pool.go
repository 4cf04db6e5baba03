package features

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultPoolSize       = 4
	DefaultAcquireTimeout = 5 * time.Second
	maxRecordedErrors     = 10
)

var (
	ErrPoolClosed     = errors.New("session pool is closed")
	ErrAcquireTimeout = errors.New("timeout waiting for available session")
)

// PoolMetrics счётчики использования пула.
type PoolMetrics struct {
	Size            int
	InUse           int
	TotalAcquired   int64
	TotalReleased   int64
	AcquireFailures int64
	WaitTime        time.Duration
}

// PoolStats источник метрик пула, например ONNXExtractor.
type PoolStats interface {
	Metrics() PoolMetrics
}

// SessionPool пул тяжёлых сессий инференса фиксированного размера.
type SessionPool[T any] struct {
	sessions       chan T
	size           int
	newSession     func() (T, error)
	destroy        func(T)
	acquireTimeout time.Duration

	mu         sync.RWMutex
	closed     bool
	lastErrors []error

	metricsMu sync.Mutex
	metrics   PoolMetrics
}

// NewSessionPool создаёт size сессий сразу. При ошибке уже созданные уничтожаются.
func NewSessionPool[T any](size int, newSession func() (T, error), destroy func(T)) (*SessionPool[T], error) {
	if size <= 0 {
		size = DefaultPoolSize
	}

	pool := &SessionPool[T]{
		sessions:       make(chan T, size),
		size:           size,
		newSession:     newSession,
		destroy:        destroy,
		acquireTimeout: DefaultAcquireTimeout,
	}

	for i := 0; i < size; i++ {
		session, err := newSession()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to initialize session %d: %w", i, err)
		}
		pool.sessions <- session
	}

	return pool, nil
}

// SetAcquireTimeout меняет максимальное ожидание свободной сессии.
func (p *SessionPool[T]) SetAcquireTimeout(d time.Duration) {
	p.acquireTimeout = d
}

// Acquire ждёт свободную сессию не дольше таймаута пула и дедлайна ctx.
func (p *SessionPool[T]) Acquire(ctx context.Context) (T, error) {
	var zero T
	if p.isClosed() {
		return zero, ErrPoolClosed
	}

	start := time.Now()
	defer func() {
		p.metricsMu.Lock()
		p.metrics.WaitTime += time.Since(start)
		p.metricsMu.Unlock()
	}()

	timer := time.NewTimer(p.acquireTimeout)
	defer timer.Stop()

	select {
	case session, ok := <-p.sessions:
		if !ok {
			return zero, ErrPoolClosed
		}
		p.metricsMu.Lock()
		p.metrics.InUse++
		p.metrics.TotalAcquired++
		p.metricsMu.Unlock()
		return session, nil
	case <-timer.C:
		p.metricsMu.Lock()
		p.metrics.AcquireFailures++
		p.metricsMu.Unlock()
		return zero, ErrAcquireTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Release возвращает сессию в пул. После Close сессия уничтожается.
func (p *SessionPool[T]) Release(session T) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.metricsMu.Lock()
	p.metrics.InUse--
	p.metrics.TotalReleased++
	p.metricsMu.Unlock()

	if p.closed {
		p.destroy(session)
		return
	}
	p.sessions <- session
}

// Discard уничтожает сломанную сессию и пытается создать замену.
func (p *SessionPool[T]) Discard(session T) {
	p.metricsMu.Lock()
	p.metrics.InUse--
	p.metricsMu.Unlock()

	p.destroy(session)

	replacement, err := p.newSession()
	if err != nil {
		p.recordError(err)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.destroy(replacement)
		return
	}
	p.sessions <- replacement
}

// Close уничтожает все свободные сессии. Повторный вызов ничего не делает.
func (p *SessionPool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.sessions)

	for session := range p.sessions {
		p.destroy(session)
	}
}

// Size возвращает настроенный размер пула.
func (p *SessionPool[T]) Size() int {
	return p.size
}

// Metrics возвращает снимок счётчиков.
func (p *SessionPool[T]) Metrics() PoolMetrics {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	m := p.metrics
	m.Size = p.size
	return m
}

// LastErrors возвращает последние ошибки пересоздания сессий.
func (p *SessionPool[T]) LastErrors() []error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]error(nil), p.lastErrors...)
}

func (p *SessionPool[T]) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

func (p *SessionPool[T]) recordError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastErrors = append(p.lastErrors, err)
	if len(p.lastErrors) > maxRecordedErrors {
		p.lastErrors = p.lastErrors[1:]
	}
}
