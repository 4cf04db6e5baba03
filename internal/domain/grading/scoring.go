package grading

import (
	"errors"

	"produce-grader/internal/domain/entity"
)

const (
	MinQualityScore = 0.0
	MaxQualityScore = 100.0
)

// ErrFeatureDimension длина вектора признаков не совпадает с моделью.
var ErrFeatureDimension = errors.New("feature vector dimension mismatch")

// Scorer даёт базовый балл и уверенность модели по вектору признаков.
type Scorer interface {
	BaseScore(features entity.FeatureVector) (base, confidence float64, err error)
	Mode() string
}

// ScoreResult итог работы движка оценки.
type ScoreResult struct {
	Score      float64
	Grade      entity.Grade
	Confidence float64
}

// colorPenalties штрафы за цветовые признаки порчи.
var colorPenalties = struct {
	BrownSpotThreshold     float64 // штраф применяется при доле выше порога
	BrownSpotFactor        float64
	LowSaturationThreshold float64
	LowSaturationPenalty   float64
}{
	BrownSpotThreshold:     5,
	BrownSpotFactor:        2,
	LowSaturationThreshold: 50,
	LowSaturationPenalty:   10,
}

// Engine переводит признаки и цветовой профиль в балл и класс.
type Engine struct {
	scorer Scorer
	grades GradeTable
}

// NewEngine создаёт движок оценки.
func NewEngine(scorer Scorer, grades GradeTable) *Engine {
	return &Engine{scorer: scorer, grades: grades}
}

// Score считает итоговый балл: базовый балл минус цветовые штрафы, в пределах [0, 100].
// Уверенность передаётся как есть и на балл не влияет.
func (e *Engine) Score(features entity.FeatureVector, colors entity.ColorProfile) (ScoreResult, error) {
	base, confidence, err := e.scorer.BaseScore(features)
	if err != nil {
		return ScoreResult{}, err
	}

	score := base
	if colors.BrownSpotPercentage > colorPenalties.BrownSpotThreshold {
		score -= colors.BrownSpotPercentage * colorPenalties.BrownSpotFactor
	}
	if colors.MeanSaturation < colorPenalties.LowSaturationThreshold {
		score -= colorPenalties.LowSaturationPenalty
	}
	score = clamp(score, MinQualityScore, MaxQualityScore)

	return ScoreResult{
		Score:      score,
		Grade:      e.grades.Grade(score),
		Confidence: confidence,
	}, nil
}

// Grades возвращает таблицу классов движка.
func (e *Engine) Grades() GradeTable {
	return e.grades
}

// Mode возвращает режим подключённого скорера.
func (e *Engine) Mode() string {
	return e.scorer.Mode()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
