package port

import (
	"context"

	"produce-grader/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей бота
type UserRepository interface {
	// Get возвращает копию пользователя, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (entity.User, error)

	// Update атомарно изменяет пользователя и возвращает новое состояние
	Update(ctx context.Context, userID, chatID int64, fn func(u *entity.User)) (entity.User, error)
}
