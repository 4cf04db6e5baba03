package grading

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-grader/internal/domain/entity"
)

type fixedScorer struct {
	base       float64
	confidence float64
	err        error
}

func (s fixedScorer) BaseScore(entity.FeatureVector) (float64, float64, error) {
	return s.base, s.confidence, s.err
}

func (s fixedScorer) Mode() string { return "fixed" }

func healthyColors() entity.ColorProfile {
	return entity.ColorProfile{MeanHue: 30, MeanSaturation: 120, MeanValue: 150}
}

func TestEngine_NoPenalties(t *testing.T) {
	engine := NewEngine(fixedScorer{base: 90, confidence: 88}, DefaultGradeTable())

	res, err := engine.Score(nil, healthyColors())
	require.NoError(t, err)
	assert.Equal(t, 90.0, res.Score)
	assert.Equal(t, entity.GradeA, res.Grade)
	assert.Equal(t, 88.0, res.Confidence)
}

func TestEngine_BrownPenalty(t *testing.T) {
	engine := NewEngine(fixedScorer{base: 90, confidence: 85}, DefaultGradeTable())

	colors := healthyColors()
	colors.BrownSpotPercentage = 10
	res, err := engine.Score(nil, colors)
	require.NoError(t, err)
	assert.InDelta(t, 70.0, res.Score, 1e-9)
	assert.Equal(t, entity.GradeB, res.Grade)

	// на пороге штрафа нет
	colors.BrownSpotPercentage = 5
	res, err = engine.Score(nil, colors)
	require.NoError(t, err)
	assert.Equal(t, 90.0, res.Score)
}

func TestEngine_LowSaturationPenalty(t *testing.T) {
	engine := NewEngine(fixedScorer{base: 80, confidence: 85}, DefaultGradeTable())

	colors := healthyColors()
	colors.MeanSaturation = 49.9
	res, err := engine.Score(nil, colors)
	require.NoError(t, err)
	assert.InDelta(t, 70.0, res.Score, 1e-9)

	colors.MeanSaturation = 50
	res, err = engine.Score(nil, colors)
	require.NoError(t, err)
	assert.Equal(t, 80.0, res.Score)
}

func TestEngine_ClampsAtZero(t *testing.T) {
	engine := NewEngine(fixedScorer{base: 30, confidence: 85}, DefaultGradeTable())

	colors := entity.ColorProfile{MeanSaturation: 10, MeanValue: 20, BrownSpotPercentage: 60}
	res, err := engine.Score(nil, colors)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, entity.GradeD, res.Grade)
}

func TestEngine_ConfidenceDoesNotAffectScore(t *testing.T) {
	low := NewEngine(fixedScorer{base: 75, confidence: 60}, DefaultGradeTable())
	high := NewEngine(fixedScorer{base: 75, confidence: 95}, DefaultGradeTable())

	a, err := low.Score(nil, healthyColors())
	require.NoError(t, err)
	b, err := high.Score(nil, healthyColors())
	require.NoError(t, err)
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Grade, b.Grade)
}

func TestEngine_ScorerError(t *testing.T) {
	boom := errors.New("boom")
	engine := NewEngine(fixedScorer{err: boom}, DefaultGradeTable())

	_, err := engine.Score(nil, healthyColors())
	require.ErrorIs(t, err, boom)
}

func TestSimulatedScorer_Bounds(t *testing.T) {
	scorer := NewSeededScorer(42)
	for i := 0; i < 2000; i++ {
		base, confidence, err := scorer.BaseScore(nil)
		require.NoError(t, err)
		require.GreaterOrEqual(t, base, 30.0)
		require.LessOrEqual(t, base, 95.0)
		require.GreaterOrEqual(t, confidence, 60.0)
		require.LessOrEqual(t, confidence, 95.0)
	}
	assert.Equal(t, ModeSimulated, scorer.Mode())
}

func TestSimulatedScorer_Reproducible(t *testing.T) {
	a := NewSeededScorer(7)
	b := NewSeededScorer(7)
	for i := 0; i < 50; i++ {
		ba, ca, _ := a.BaseScore(nil)
		bb, cb, _ := b.BaseScore(nil)
		require.Equal(t, ba, bb)
		require.Equal(t, ca, cb)
	}
}

func TestLinearScorer(t *testing.T) {
	scorer, err := NewLinearScorer(LinearWeights{Bias: 50, Weights: []float64{10, 20}})
	require.NoError(t, err)

	base, confidence, err := scorer.BaseScore(entity.FeatureVector{1, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 70.0, base, 1e-6)
	assert.Equal(t, 85.0, confidence)
	assert.Equal(t, ModeLinear, scorer.Mode())

	base, _, err = scorer.BaseScore(entity.FeatureVector{10, 10})
	require.NoError(t, err)
	assert.Equal(t, 95.0, base)

	base, _, err = scorer.BaseScore(entity.FeatureVector{-10, -10})
	require.NoError(t, err)
	assert.Equal(t, 30.0, base)
}

func TestLinearScorer_DimensionMismatch(t *testing.T) {
	scorer, err := NewLinearScorer(LinearWeights{Weights: []float64{1, 2, 3}})
	require.NoError(t, err)

	_, _, err = scorer.BaseScore(entity.FeatureVector{1})
	require.ErrorIs(t, err, ErrFeatureDimension)
}

func TestNewLinearScorer_Invalid(t *testing.T) {
	_, err := NewLinearScorer(LinearWeights{})
	require.Error(t, err)

	_, err = NewLinearScorer(LinearWeights{Weights: []float64{1}, Confidence: 120})
	require.Error(t, err)
}

func TestLoadLinearWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bias: 40\nweights: [1.5, -2]\nconfidence: 90\n"), 0o600))

	w, err := LoadLinearWeights(path)
	require.NoError(t, err)
	assert.Equal(t, 40.0, w.Bias)
	assert.Equal(t, []float64{1.5, -2}, w.Weights)
	assert.Equal(t, 90.0, w.Confidence)

	_, err = LoadLinearWeights(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
