package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

var _ port.ResultCache = (*MemoryCache)(nil)

var errNonPositiveTTL = errors.New("cache ttl must be positive")

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache кэш в памяти процесса.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache создаёт пустой кэш.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Put сохраняет копию значения.
func (c *MemoryCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return errNonPositiveTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Get возвращает копию значения или ErrCacheMiss. Истёкшие записи удаляются.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, entity.ErrCacheMiss
	}

	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, entity.ErrCacheMiss
	}

	return append([]byte(nil), entry.value...), nil
}

// Len число записей, включая ещё не удалённые истёкшие.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}
