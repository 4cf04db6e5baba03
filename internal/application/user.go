package app

import (
	"context"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.SetState(state)
	})
}

// BeginCheck переводит пользователя в ожидание фото.
func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

// BeginProcessing помечает, что фото пользователя уже в работе.
// Возвращает false, если предыдущее фото ещё обрабатывается.
func (s *UserService) BeginProcessing(ctx context.Context, userID, chatID int64) (entity.User, bool, error) {
	started := false
	user, err := s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		if u.State == entity.StateProcessing {
			return
		}
		u.SetState(entity.StateProcessing)
		started = true
	})
	return user, started, err
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// SetProduct запоминает товар, пустые поля становятся "unknown".
func (s *UserService) SetProduct(ctx context.Context, userID, chatID int64, product entity.ProductInfo) (entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) {
		u.SetProduct(product)
	})
}
