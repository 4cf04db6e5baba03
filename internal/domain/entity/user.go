package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото продукта
	StateProcessing    UserState = "processing"     // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID      int64       // Telegram User ID
	ChatID  int64       // Telegram Chat ID
	State   UserState   // Текущее состояние пользователя
	Product ProductInfo // Товар, к которому относятся следующие фото
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:      userID,
		ChatID:  chatID,
		State:   StateMainMenu,
		Product: ProductInfo{}.Normalized(),
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetProduct запоминает товар для следующих проверок
func (u *User) SetProduct(product ProductInfo) {
	u.Product = product.Normalized()
}
