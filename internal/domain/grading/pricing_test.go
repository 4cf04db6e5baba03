package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"produce-grader/internal/domain/entity"
)

func TestPriceAdjustment_Brackets(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{95, 10},
		{90, 10},
		{85, 5},
		{75, 0},
		{65, -10},
		{55, -20},
		{49.9, -30},
		{0, -30},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PriceAdjustment(tc.score, nil), "score %.1f", tc.score)
	}
}

func TestPriceAdjustment_DefectPenalties(t *testing.T) {
	defects := []entity.Defect{
		{Type: entity.DefectBrownSpots, Severity: 0.8},
		{Type: entity.DefectDiscoloration, Severity: 0.6},
		{Type: entity.DefectPoorLighting, Severity: 0.4},
	}
	// 0 - 10 - 5, у severity 0.4 штрафа нет
	assert.Equal(t, -15.0, PriceAdjustment(75, defects))
}

func TestPriceAdjustment_ClampedOnce(t *testing.T) {
	defects := []entity.Defect{
		{Severity: 1}, {Severity: 1}, {Severity: 0.9},
	}
	assert.Equal(t, -50.0, PriceAdjustment(10, defects))

	// +10 и -10 дают 0: ограничение не применяется к промежуточной сумме
	assert.Equal(t, 0.0, PriceAdjustment(92, []entity.Defect{{Severity: 0.75}}))
}
