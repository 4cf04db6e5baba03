package grading

import (
	"math"

	"produce-grader/internal/domain/entity"
)

type defectRule struct {
	defectType entity.DefectType
	applies    func(entity.ColorProfile) bool
	severity   func(entity.ColorProfile) float64
	confidence float64
}

// defectRules проверяются по порядку и независимо друг от друга.
var defectRules = []defectRule{
	{
		defectType: entity.DefectBrownSpots,
		applies:    func(c entity.ColorProfile) bool { return c.BrownSpotPercentage > 2 },
		severity:   func(c entity.ColorProfile) float64 { return math.Min(1, c.BrownSpotPercentage/10) },
		confidence: 0.8,
	},
	{
		defectType: entity.DefectDiscoloration,
		applies:    func(c entity.ColorProfile) bool { return c.MeanSaturation < 40 },
		severity:   func(entity.ColorProfile) float64 { return 0.6 },
		confidence: 0.7,
	},
	{
		defectType: entity.DefectPoorLighting,
		applies:    func(c entity.ColorProfile) bool { return c.MeanValue < 50 },
		severity:   func(entity.ColorProfile) float64 { return 0.4 },
		confidence: 0.6,
	},
}

// DetectDefects находит дефекты по цветовому профилю. Балл зарезервирован
// для будущих правил и сейчас не используется.
func DetectDefects(colors entity.ColorProfile, _ float64) []entity.Defect {
	defects := make([]entity.Defect, 0, len(defectRules))
	for _, rule := range defectRules {
		if !rule.applies(colors) {
			continue
		}
		defects = append(defects, entity.Defect{
			Type:       rule.defectType,
			Severity:   rule.severity(colors),
			Confidence: rule.confidence,
		})
	}
	return defects
}
