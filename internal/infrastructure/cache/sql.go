package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

const tableName = "grader_result_cache"

var _ port.ResultCache = (*SQLCache)(nil)

// SQLCache кэш в таблице SQL-базы. Время истечения хранится в миллисекундах Unix.
type SQLCache struct {
	db      *sqlx.DB
	backend Backend
	now     func() time.Time
}

type cacheRow struct {
	Value     []byte `db:"cache_value"`
	ExpiresAt int64  `db:"expires_at"`
}

// NewSQLCache подключается к базе и создаёт таблицу при необходимости.
func NewSQLCache(ctx context.Context, backend Backend, dsn string) (*SQLCache, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s cache. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	if backend == BackendSQLite {
		// одно соединение, иначе "database is locked"
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, createTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SQLCache{db: db, backend: backend, now: time.Now}, nil
}

func driverFor(backend Backend) (string, error) {
	switch backend {
	case BackendSQLite:
		return "sqlite", nil
	case BackendPostgres:
		return "pgx", nil
	case BackendMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("backend %s is not an SQL backend", backend)
	}
}

func createTableQuery(backend Backend) string {
	switch backend {
	case BackendMySQL:
		return `
			CREATE TABLE IF NOT EXISTS ` + tableName + ` (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value LONGBLOB NOT NULL,
				expires_at BIGINT NOT NULL
			)`
	case BackendPostgres:
		return `
			CREATE TABLE IF NOT EXISTS ` + tableName + ` (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				expires_at BIGINT NOT NULL
			)`
	default:
		return `
			CREATE TABLE IF NOT EXISTS ` + tableName + ` (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				expires_at INTEGER NOT NULL
			)`
	}
}

func (c *SQLCache) upsertQuery() string {
	switch c.backend {
	case BackendMySQL:
		return `INSERT INTO ` + tableName + ` (cache_key, cache_value, expires_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, expires_at = new.expires_at`
	case BackendPostgres:
		return `INSERT INTO ` + tableName + ` (cache_key, cache_value, expires_at) VALUES (?, ?, ?)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, expires_at = EXCLUDED.expires_at`
	default:
		return `INSERT OR REPLACE INTO ` + tableName + ` (cache_key, cache_value, expires_at) VALUES (?, ?, ?)`
	}
}

// Put вставляет или заменяет запись.
func (c *SQLCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errNonPositiveTTL
	}

	expiresAt := c.now().Add(ttl).UnixMilli()
	if _, err := c.db.ExecContext(ctx, c.db.Rebind(c.upsertQuery()), key, value, expiresAt); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrCacheUnavailable, err)
	}
	return nil
}

// Get возвращает значение или ErrCacheMiss. Истёкшая запись удаляется.
func (c *SQLCache) Get(ctx context.Context, key string) ([]byte, error) {
	var row cacheRow
	query := c.db.Rebind(`SELECT cache_value, expires_at FROM ` + tableName + ` WHERE cache_key = ?`)
	if err := c.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrCacheUnavailable, err)
	}

	if c.now().UnixMilli() >= row.ExpiresAt {
		del := c.db.Rebind(`DELETE FROM ` + tableName + ` WHERE cache_key = ? AND expires_at = ?`)
		_, _ = c.db.ExecContext(ctx, del, key, row.ExpiresAt)
		return nil, entity.ErrCacheMiss
	}

	return row.Value, nil
}

// DeleteExpired удаляет все истёкшие записи и возвращает их число.
func (c *SQLCache) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, c.db.Rebind(`DELETE FROM `+tableName+` WHERE expires_at <= ?`), c.now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *SQLCache) Close() error {
	return c.db.Close()
}
