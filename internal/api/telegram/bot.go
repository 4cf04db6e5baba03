package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "produce-grader/internal/application"
	"produce-grader/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я оцениваю качество фруктов и овощей по фотографии.

📸 Отправьте фото продукта, и я поставлю класс качества, найду дефекты и подскажу корректировку цены.

📋 Команды:
/check — начать проверку
/product <тип> [категория] — указать товар
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Укажите товар: /product apple fruit (необязательно)
2️⃣ Отправьте фото продукта
3️⃣ Получите класс A–D, оценку, дефекты и рекомендации

💡 Рекомендации:
• Снимайте при хорошем освещении
• Используйте однотонный фон
• Продукт должен занимать большую часть кадра

📋 Команды:
/check — начать проверку
/product — указать товар
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото продукта для оценки качества."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото продукта для оценки качества."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается, подождите."
	msgProductUsage    = "Использование: /product <тип> [категория], например /product apple fruit"
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgUnsupportedFile = "⚠️ Поддерживаются только изображения JPEG, PNG и WebP."
)

// Assessor оценивает один загруженный снимок.
type Assessor interface {
	AssessUpload(ctx context.Context, filename string, data []byte, product entity.ProductInfo) (*entity.QualityAssessment, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api          *tgbotapi.BotAPI
	users        *app.UserService
	assessor     Assessor
	httpClient   *http.Client
	fileEndpoint string
	wg           sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, assessor Assessor) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newBot(api, users, assessor), nil
}

func newBot(api *tgbotapi.BotAPI, users *app.UserService, assessor Assessor) *Bot {
	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:          api,
		users:        users,
		assessor:     assessor,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		fileEndpoint: tgbotapi.FileEndpoint,
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Сообщения обрабатываются параллельно, перед выходом Run дожидается всех.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			b.wg.Go(func() {
				b.handleMessage(ctx, msg)
			})
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		// Последний размер самый крупный
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg, photo.FileID, "photo.jpg")
		return
	}

	if doc := msg.Document; doc != nil && strings.HasPrefix(doc.MimeType, "image/") {
		b.handleImage(ctx, msg, doc.FileID, doc.FileName)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		_, err = b.users.BeginCheck(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "product":
		product, ok := parseProduct(msg.CommandArguments())
		if !ok {
			b.sendMessage(chatID, msgProductUsage)
			return
		}
		var user entity.User
		user, err = b.users.SetProduct(ctx, userID, chatID, product)
		if err == nil {
			b.sendMessage(chatID, fmt.Sprintf("🏷 Товар: %s (%s). %s", user.Product.Type, user.Product.Category, msgAwaitingPhoto))
		}

	case "cancel":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
	}
}

// handleImage скачивает снимок и отправляет результат оценки
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID, filename string) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	user, started, err := b.users.BeginProcessing(ctx, userID, chatID)
	if err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
		return
	}
	if !started {
		b.sendMessage(chatID, msgBusy)
		return
	}
	defer func() {
		if _, err := b.users.Cancel(context.WithoutCancel(ctx), userID, chatID); err != nil {
			log.Printf("Error resetting user %d: %v", userID, err)
		}
	}()

	b.sendMessage(chatID, msgProcessing)

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	assessment, err := b.assessor.AssessUpload(ctx, filename, data, user.Product)
	if err != nil {
		log.Printf("Error assessing photo from user %d: %v", userID, err)
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	b.sendMessage(chatID, formatAssessment(user.Product, assessment))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := fmt.Sprintf(b.fileEndpoint, b.api.Token, file.FilePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
