package storage

import (
	"context"
	"sync"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает копию пользователя, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return *r.lookup(userID, chatID), nil
}

// Update меняет пользователя под блокировкой, чтобы параллельные апдейты бота не терялись
func (r *MemoryUserRepository) Update(ctx context.Context, userID, chatID int64, fn func(u *entity.User)) (entity.User, error) {
	if err := ctx.Err(); err != nil {
		return entity.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.lookup(userID, chatID)
	fn(user)
	return *user, nil
}

// lookup вызывается под r.mu
func (r *MemoryUserRepository) lookup(userID, chatID int64) *entity.User {
	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	return user
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
