//go:build !gocv
// +build !gocv

package vision

import (
	"image"
	"image/color"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

var _ port.ColorAnalyzer = (*ColorAnalyzer)(nil)

// ColorAnalyzer считает цветовой профиль на чистом Go.
type ColorAnalyzer struct{}

// NewColorAnalyzer создаёт анализатор без OpenCV.
func NewColorAnalyzer() *ColorAnalyzer {
	return &ColorAnalyzer{}
}

// Backend возвращает имя реализации.
func (a *ColorAnalyzer) Backend() string {
	return "go"
}

// Analyze проходит по всем пикселям исходного разрешения.
func (a *ColorAnalyzer) Analyze(img image.Image) (entity.ColorProfile, error) {
	if err := checkImage(img); err != nil {
		return entity.ColorProfile{}, err
	}

	var sumH, sumS, sumV, brown uint64
	visit := func(r, g, b uint8) {
		h, s, v := rgbToHSV(r, g, b)
		sumH += uint64(h)
		sumS += uint64(s)
		sumV += uint64(v)
		if inBrownRange(h, s, v) {
			brown++
		}
	}

	bounds := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := nrgba.Pix[nrgba.PixOffset(bounds.Min.X, y):]
			for x := 0; x < bounds.Dx(); x++ {
				visit(row[x*4], row[x*4+1], row[x*4+2])
			}
		}
	} else {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				visit(c.R, c.G, c.B)
			}
		}
	}

	total := float64(bounds.Dx() * bounds.Dy())
	return entity.ColorProfile{
		MeanHue:             float64(sumH) / total,
		MeanSaturation:      float64(sumS) / total,
		MeanValue:           float64(sumV) / total,
		BrownSpotPercentage: float64(brown) / total * 100,
	}, nil
}
