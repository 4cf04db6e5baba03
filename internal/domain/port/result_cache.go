package port

import (
	"context"
	"time"
)

// ResultCache интерфейс кэша результатов анализа
type ResultCache interface {
	// Put сохраняет значение на ttl
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get возвращает значение или entity.ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Close освобождает соединения
	Close() error
}
