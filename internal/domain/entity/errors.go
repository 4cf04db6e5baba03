package entity

import "errors"

var (
	// ErrInvalidImage пустое, повреждённое или не трёхканальное изображение
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnsupportedFormat расширение или кодировка не поддерживаются
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrFeatureExtraction сбой экстрактора признаков
	ErrFeatureExtraction = errors.New("feature extraction failed")
	// ErrCacheUnavailable кэш не настроен или недоступен
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrCacheMiss ключ отсутствует в кэше или истёк
	ErrCacheMiss = errors.New("cache miss")
	// ErrResultNotFound результат анализа не найден или истёк
	ErrResultNotFound = errors.New("result not found or expired")
	// ErrNoImagesProcessed ни один снимок пакета не обработан
	ErrNoImagesProcessed = errors.New("no images could be processed")
)
