package grading

import (
	"produce-grader/internal/domain/entity"
)

type scoreAdvice struct {
	minScore float64
	messages []string
}

// generalAdvice от высшего порога к низшему, последний действует для любого балла.
var generalAdvice = []scoreAdvice{
	{minScore: 85, messages: []string{
		"Excellent quality! Perfect for premium markets.",
		"Consider direct-to-consumer sales for maximum profit.",
	}},
	{minScore: 70, messages: []string{
		"Good quality suitable for retail markets.",
		"Proper storage will maintain quality.",
	}},
	{minScore: 55, messages: []string{
		"Moderate quality - suitable for processing.",
		"Quick sale recommended to prevent further deterioration.",
	}},
	{minScore: 0, messages: []string{
		"Lower quality - consider processing or discount pricing.",
		"Immediate action needed to prevent total loss.",
	}},
}

type defectAdvice struct {
	defectType entity.DefectType
	messages   []string
}

// defectAdvices задаёт и тексты, и порядок вывода.
var defectAdvices = []defectAdvice{
	{defectType: entity.DefectBrownSpots, messages: []string{
		"Remove affected portions before sale.",
		"Store in cool, dry conditions to prevent spread.",
	}},
	{defectType: entity.DefectDiscoloration, messages: []string{
		"Grade as Class II - suitable for processing.",
		"Consider value-added processing options.",
	}},
	{defectType: entity.DefectPoorLighting, messages: []string{
		"Retake photos in better lighting conditions.",
		"Ensure proper display lighting for buyers.",
	}},
}

// Recommend собирает рекомендации: общая пара по баллу, затем по паре
// на каждый найденный тип дефекта.
func Recommend(score float64, defects []entity.Defect) []string {
	present := make(map[entity.DefectType]bool, len(defects))
	for _, d := range defects {
		present[d.Type] = true
	}

	out := append([]string(nil), adviceFor(score)...)
	for _, advice := range defectAdvices {
		if present[advice.defectType] {
			out = append(out, advice.messages...)
		}
	}
	return out
}

func adviceFor(score float64) []string {
	for _, a := range generalAdvice {
		if score >= a.minScore {
			return a.messages
		}
	}
	return generalAdvice[len(generalAdvice)-1].messages
}
