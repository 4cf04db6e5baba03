package port

import (
	"context"
	"image"

	"produce-grader/internal/domain/entity"
)

// ColorAnalyzer интерфейс цветового анализатора
type ColorAnalyzer interface {
	// Analyze считает HSV-статистику и долю бурых пикселей
	Analyze(img image.Image) (entity.ColorProfile, error)
}

// FeatureExtractor интерфейс экстрактора визуальных признаков.
// Реализации должны допускать конкурентные вызовы.
type FeatureExtractor interface {
	// Extract возвращает вектор признаков изображения
	Extract(ctx context.Context, img image.Image) (entity.FeatureVector, error)

	// Name возвращает короткое имя реализации для /models/info
	Name() string
}

// ImageDecoder интерфейс декодера загруженных файлов
type ImageDecoder interface {
	// Decode проверяет расширение и декодирует байты в трёхканальное изображение
	Decode(filename string, data []byte) (image.Image, error)

	// Supports проверяет только расширение, без чтения данных
	Supports(filename string) bool

	// SupportedFormats возвращает список поддерживаемых расширений
	SupportedFormats() []string
}
