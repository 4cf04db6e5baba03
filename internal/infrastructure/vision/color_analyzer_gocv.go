//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

var _ port.ColorAnalyzer = (*ColorAnalyzer)(nil)

// ColorAnalyzer считает цветовой профиль через OpenCV.
type ColorAnalyzer struct{}

// NewColorAnalyzer создаёт анализатор на gocv.
func NewColorAnalyzer() *ColorAnalyzer {
	return &ColorAnalyzer{}
}

// Backend возвращает имя реализации.
func (a *ColorAnalyzer) Backend() string {
	return "gocv"
}

// Analyze переводит изображение в HSV и считает маску бурых пикселей.
func (a *ColorAnalyzer) Analyze(img image.Image) (entity.ColorProfile, error) {
	if err := checkImage(img); err != nil {
		return entity.ColorProfile{}, err
	}

	// ImageToMatRGB отдаёт матрицу в порядке BGR.
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return entity.ColorProfile{}, fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	defer mat.Close()

	if mat.Empty() || mat.Channels() != 3 {
		return entity.ColorProfile{}, fmt.Errorf("%w: expected 3 channels", entity.ErrInvalidImage)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(brownLower[0], brownLower[1], brownLower[2], 0),
		gocv.NewScalar(brownUpper[0], brownUpper[1], brownUpper[2], 0),
		&mask)

	mean := hsv.Mean()
	return entity.ColorProfile{
		MeanHue:             mean.Val1,
		MeanSaturation:      mean.Val2,
		MeanValue:           mean.Val3,
		BrownSpotPercentage: ratioOfMask(mask) * 100,
	}, nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
