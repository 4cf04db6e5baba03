package grading

import (
	"produce-grader/internal/domain/entity"
)

const (
	MinPriceAdjustment = -50.0
	MaxPriceAdjustment = 20.0
)

type priceBracket struct {
	minScore   float64
	adjustment float64
}

// priceBrackets от высшего порога к низшему. Балл ниже последнего порога даёт fallbackAdjustment.
var priceBrackets = []priceBracket{
	{minScore: 90, adjustment: 10},
	{minScore: 80, adjustment: 5},
	{minScore: 70, adjustment: 0},
	{minScore: 60, adjustment: -10},
	{minScore: 50, adjustment: -20},
}

const fallbackAdjustment = -30.0

type severityPenalty struct {
	above   float64
	penalty float64
}

// severityPenalties применяется первый подходящий штраф на каждый дефект.
var severityPenalties = []severityPenalty{
	{above: 0.7, penalty: -10},
	{above: 0.4, penalty: -5},
}

// PriceAdjustment возвращает корректировку цены в процентах.
// Все слагаемые суммируются, ограничение применяется один раз в конце.
func PriceAdjustment(score float64, defects []entity.Defect) float64 {
	total := fallbackAdjustment
	for _, b := range priceBrackets {
		if score >= b.minScore {
			total = b.adjustment
			break
		}
	}

	for _, d := range defects {
		for _, p := range severityPenalties {
			if d.Severity > p.above {
				total += p.penalty
				break
			}
		}
	}

	return clamp(total, MinPriceAdjustment, MaxPriceAdjustment)
}
