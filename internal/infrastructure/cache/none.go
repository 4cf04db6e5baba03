package cache

import (
	"context"
	"time"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

var _ port.ResultCache = NoneCache{}

// NoneCache отключённый кэш: запись молча пропускается, чтение всегда недоступно.
type NoneCache struct{}

func (NoneCache) Put(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NoneCache) Get(context.Context, string) ([]byte, error) {
	return nil, entity.ErrCacheUnavailable
}

func (NoneCache) Close() error { return nil }
