package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

var _ port.ImageDecoder = (*Decoder)(nil)

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".webp"}

// Decoder декодирует загруженные файлы в NRGBA.
type Decoder struct{}

// NewDecoder создаёт декодер.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// SupportedFormats возвращает допустимые расширения.
func (d *Decoder) SupportedFormats() []string {
	return append([]string(nil), supportedFormats...)
}

// Supports проверяет расширение без учёта регистра. Путь отбрасывается.
func (d *Decoder) Supports(filename string) bool {
	ext := strings.ToLower(filepath.Ext(SanitizeFilename(filename)))
	for _, f := range supportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// Decode проверяет расширение, декодирует с учётом EXIF-ориентации
// и приводит результат к трёхканальному NRGBA.
func (d *Decoder) Decode(filename string, data []byte) (image.Image, error) {
	name := SanitizeFilename(filename)
	if !d.Supports(name) {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnsupportedFormat, name)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s: %v", entity.ErrUnsupportedFormat, name, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrInvalidImage, name, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %s has zero area", entity.ErrInvalidImage, name)
	}

	return imaging.Clone(img), nil
}

// SanitizeFilename оставляет только базовое имя файла.
func SanitizeFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
