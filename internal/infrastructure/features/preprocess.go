package features

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// InputSize сторона квадратного входа для бэкбона.
const InputSize = 224

// Нормализация ImageNet.
var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Downscale уменьшает изображение так, чтобы большая сторона не превышала maxSide.
// Меньшие изображения возвращаются без изменений.
func Downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}

// TensorLen длина входного тензора 1x3xInputSizexInputSize.
func TensorLen() int {
	return 3 * InputSize * InputSize
}

// FillTensorCHW приводит изображение к InputSize x InputSize и пишет
// нормализованные каналы в dst в порядке CHW.
func FillTensorCHW(img image.Image, dst []float32) error {
	if len(dst) != TensorLen() {
		return fmt.Errorf("tensor buffer has %d elements, want %d", len(dst), TensorLen())
	}

	resized := imaging.Resize(img, InputSize, InputSize, imaging.Lanczos)
	channelSize := InputSize * InputSize
	for y := 0; y < InputSize; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < InputSize; x++ {
			i := y*InputSize + x
			for c := 0; c < 3; c++ {
				v := float32(row[x*4+c]) / 255.0
				dst[c*channelSize+i] = (v - imagenetMean[c]) / imagenetStd[c]
			}
		}
	}
	return nil
}
