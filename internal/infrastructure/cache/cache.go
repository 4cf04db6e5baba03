// Package cache хранит результаты анализа ограниченное время.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"produce-grader/internal/domain/port"
)

// Backend вид хранилища кэша.
type Backend string

const (
	BackendNone     Backend = "none"
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
	BackendRedis    Backend = "redis"
)

// Backends возвращает все поддерживаемые виды.
func Backends() []Backend {
	return []Backend{BackendNone, BackendMemory, BackendSQLite, BackendPostgres, BackendMySQL, BackendRedis}
}

// New создаёт кэш по имени бэкенда. Пустой dsn для sqlite означает файл
// в пользовательском каталоге кэша.
func New(ctx context.Context, backend Backend, dsn string) (port.ResultCache, error) {
	switch backend {
	case BackendNone:
		return NoneCache{}, nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendSQLite:
		if dsn == "" {
			dsn = DefaultSQLitePath()
		}
		return NewSQLCache(ctx, backend, dsn)
	case BackendPostgres, BackendMySQL:
		if dsn == "" {
			return nil, fmt.Errorf("cache backend %s requires a dsn", backend)
		}
		return NewSQLCache(ctx, backend, dsn)
	case BackendRedis:
		if dsn == "" {
			dsn = "redis://localhost:6379/0"
		}
		return NewRedisCache(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be none, memory, sqlite, postgres, mysql or redis", backend)
	}
}

// DefaultSQLitePath путь к файлу SQLite по умолчанию.
func DefaultSQLitePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "grader_cache.db"
	}
	dir = filepath.Join(dir, "produce-grader")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "grader_cache.db"
	}
	return filepath.Join(dir, "cache.db")
}
