package grading

import (
	"math/rand/v2"
	"sync"

	"produce-grader/internal/domain/entity"
)

// Параметры симуляции: нормальное распределение с отсечением.
const (
	simulatedBaseMean       = 80.0
	simulatedBaseStdDev     = 10.0
	simulatedBaseMin        = 30.0
	simulatedBaseMax        = 95.0
	simulatedConfidenceMean = 85.0
	simulatedConfidenceStd  = 5.0
	simulatedConfidenceMin  = 60.0
	simulatedConfidenceMax  = 95.0
)

// ModeSimulated режим без обученной головы: балл берётся из распределения.
const ModeSimulated = "simulated"

// SimulatedScorer игнорирует признаки и тянет балл и уверенность из
// внедрённого генератора. Для воспроизводимости генератор нужно сидировать.
type SimulatedScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedScorer создаёт скорер поверх готового генератора.
func NewSimulatedScorer(rng *rand.Rand) *SimulatedScorer {
	return &SimulatedScorer{rng: rng}
}

// NewSeededScorer создаёт скорер с PCG-генератором от seed.
func NewSeededScorer(seed uint64) *SimulatedScorer {
	return NewSimulatedScorer(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// BaseScore сначала тянет балл, затем уверенность.
func (s *SimulatedScorer) BaseScore(_ entity.FeatureVector) (float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := clamp(simulatedBaseMean+s.rng.NormFloat64()*simulatedBaseStdDev, simulatedBaseMin, simulatedBaseMax)
	confidence := clamp(simulatedConfidenceMean+s.rng.NormFloat64()*simulatedConfidenceStd, simulatedConfidenceMin, simulatedConfidenceMax)
	return base, confidence, nil
}

// Mode возвращает ModeSimulated.
func (s *SimulatedScorer) Mode() string {
	return ModeSimulated
}
