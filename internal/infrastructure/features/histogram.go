package features

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

const (
	// HistogramBins число корзин на канал.
	HistogramBins = 8
	// HistogramDim длина вектора HistogramExtractor.
	HistogramDim = 3 * HistogramBins
)

var _ port.FeatureExtractor = (*HistogramExtractor)(nil)

// HistogramExtractor строит нормированную RGB-гистограмму по уменьшенной копии.
// Не требует модели и полностью детерминирован.
type HistogramExtractor struct {
	maxSide int
}

// NewHistogramExtractor создаёт экстрактор.
func NewHistogramExtractor(maxSide int) *HistogramExtractor {
	return &HistogramExtractor{maxSide: maxSide}
}

// Name возвращает "histogram".
func (e *HistogramExtractor) Name() string {
	return KindHistogram
}

// Extract возвращает доли пикселей в каждой корзине каждого канала.
func (e *HistogramExtractor) Extract(ctx context.Context, img image.Image) (entity.FeatureVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInvalidImage)
	}

	small := imaging.Resize(Downscale(img, e.maxSide), InputSize, InputSize, imaging.Linear)

	var counts [HistogramDim]int
	for y := 0; y < InputSize; y++ {
		row := small.Pix[y*small.Stride:]
		for x := 0; x < InputSize; x++ {
			for c := 0; c < 3; c++ {
				bin := int(row[x*4+c]) * HistogramBins / 256
				counts[c*HistogramBins+bin]++
			}
		}
	}

	total := float32(InputSize * InputSize)
	vec := make(entity.FeatureVector, HistogramDim)
	for i, n := range counts {
		vec[i] = float32(n) / total
	}
	return vec, nil
}
