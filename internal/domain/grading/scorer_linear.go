package grading

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"produce-grader/internal/domain/entity"
)

// ModeLinear детерминированный режим: линейная голова поверх признаков.
const ModeLinear = "linear"

const defaultLinearConfidence = 85.0

// LinearWeights параметры линейной головы, читаются из YAML.
type LinearWeights struct {
	Bias       float64   `yaml:"bias"`
	Weights    []float64 `yaml:"weights"`
	Confidence float64   `yaml:"confidence"`
}

// LoadLinearWeights читает веса из YAML-файла.
func LoadLinearWeights(path string) (LinearWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LinearWeights{}, fmt.Errorf("read weights: %w", err)
	}

	var w LinearWeights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return LinearWeights{}, fmt.Errorf("parse weights %s: %w", path, err)
	}
	return w, nil
}

// LinearScorer считает bias + w·x, отсекая результат теми же границами,
// что и симуляция. Уверенность постоянна.
type LinearScorer struct {
	weights LinearWeights
}

// NewLinearScorer проверяет веса и создаёт скорер.
func NewLinearScorer(w LinearWeights) (*LinearScorer, error) {
	if len(w.Weights) == 0 {
		return nil, errors.New("linear scorer needs at least one weight")
	}
	if w.Confidence == 0 {
		w.Confidence = defaultLinearConfidence
	}
	if w.Confidence < 0 || w.Confidence > 100 {
		return nil, fmt.Errorf("confidence %.2f is out of [0, 100]", w.Confidence)
	}
	return &LinearScorer{weights: w}, nil
}

// BaseScore возвращает ErrFeatureDimension при несовпадении длины вектора.
func (s *LinearScorer) BaseScore(features entity.FeatureVector) (float64, float64, error) {
	if len(features) != len(s.weights.Weights) {
		return 0, 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureDimension, len(features), len(s.weights.Weights))
	}

	sum := s.weights.Bias
	for i, x := range features {
		sum += s.weights.Weights[i] * float64(x)
	}
	return clamp(sum, simulatedBaseMin, simulatedBaseMax), s.weights.Confidence, nil
}

// Mode возвращает ModeLinear.
func (s *LinearScorer) Mode() string {
	return ModeLinear
}
