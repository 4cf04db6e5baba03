package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"produce-grader/internal/domain/port"
)

// MockResultCache мок ResultCache для тестов.
type MockResultCache struct {
	mock.Mock
}

var _ port.ResultCache = &MockResultCache{}

// Put реализует ResultCache.
func (m *MockResultCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Get реализует ResultCache.
func (m *MockResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// Close реализует ResultCache.
func (m *MockResultCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
