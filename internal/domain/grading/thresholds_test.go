package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-grader/internal/domain/entity"
)

func TestGradeTable_Default(t *testing.T) {
	table := DefaultGradeTable()

	cases := []struct {
		score float64
		want  entity.Grade
	}{
		{100, entity.GradeA},
		{85, entity.GradeA},
		{84.99, entity.GradeB},
		{70, entity.GradeB},
		{69.9, entity.GradeC},
		{55, entity.GradeC},
		{54.9, entity.GradeD},
		{40, entity.GradeD},
		{12, entity.GradeD},
		{0, entity.GradeD},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, table.Grade(tc.score), "score %.2f", tc.score)
	}
}

func TestGradeTable_Thresholds(t *testing.T) {
	th := DefaultGradeTable().Thresholds()
	require.Len(t, th, 4)
	require.Equal(t, entity.GradeA, th[0].Grade)
	require.Equal(t, 85.0, th[0].MinScore)
	require.Equal(t, entity.GradeD, th[3].Grade)

	th[0].MinScore = 1
	require.Equal(t, 85.0, DefaultGradeTable().Thresholds()[0].MinScore)
}

func TestNewGradeTable_Invalid(t *testing.T) {
	_, err := NewGradeTable(nil)
	require.Error(t, err)

	_, err = NewGradeTable([]entity.GradeThreshold{
		{Grade: entity.GradeA, MinScore: 70},
		{Grade: entity.GradeB, MinScore: 85},
	})
	require.Error(t, err)

	_, err = NewGradeTable([]entity.GradeThreshold{
		{Grade: entity.GradeA, MinScore: 70},
		{Grade: entity.GradeB, MinScore: 70},
	})
	require.Error(t, err)

	_, err = NewGradeTable([]entity.GradeThreshold{
		{Grade: entity.GradeA, MinScore: 80},
		{Grade: entity.GradeA, MinScore: 60},
	})
	require.Error(t, err)
}
