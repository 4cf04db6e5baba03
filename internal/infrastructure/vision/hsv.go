package vision

import (
	"fmt"
	"image"
	"math"

	"produce-grader/internal/domain/entity"
)

// Границы бурого цвета в 8-битном HSV (H 0..180), включительно.
var (
	brownLower = [3]float64{10, 50, 20}
	brownUpper = [3]float64{20, 255, 200}
)

// checkImage отбрасывает пустые и одноканальные изображения.
func checkImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", entity.ErrInvalidImage)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: zero area %dx%d", entity.ErrInvalidImage, b.Dx(), b.Dy())
	}

	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return fmt.Errorf("%w: expected 3-channel image, got %T", entity.ErrInvalidImage, img)
	}
	return nil
}

// Таблицы деления OpenCV для 8-битного RGB->HSV в фиксированной точке.
const hsvShift = 12

var sdivTable, hdivTable [256]int

func init() {
	for i := 1; i < 256; i++ {
		sdivTable[i] = int(math.RoundToEven(float64(255<<hsvShift) / float64(i)))
		hdivTable[i] = int(math.RoundToEven(float64(180<<hsvShift) / (6 * float64(i))))
	}
}

// rgbToHSV переводит пиксель в HSV так же, как cv::cvtColor для 8 бит:
// H в градусах, делённых на 2, S и V в диапазоне 0..255.
func rgbToHSV(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)
	vi := max(ri, gi, bi)
	diff := vi - min(ri, gi, bi)

	si := (diff*sdivTable[vi] + 1<<(hsvShift-1)) >> hsvShift

	var hnum int
	switch vi {
	case ri:
		hnum = gi - bi
	case gi:
		hnum = bi - ri + 2*diff
	default:
		hnum = ri - gi + 4*diff
	}
	// Сдвиг арифметический: отрицательный числитель округляется вниз, как в OpenCV.
	hi := (hnum*hdivTable[diff] + 1<<(hsvShift-1)) >> hsvShift
	if hi < 0 {
		hi += 180
	}
	return uint8(hi), uint8(si), uint8(vi)
}

func inBrownRange(h, s, v uint8) bool {
	return float64(h) >= brownLower[0] && float64(h) <= brownUpper[0] &&
		float64(s) >= brownLower[1] && float64(s) <= brownUpper[1] &&
		float64(v) >= brownLower[2] && float64(v) <= brownUpper[2]
}
