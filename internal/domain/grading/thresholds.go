// Package grading содержит детерминированное ядро оценки качества:
// перевод балла в класс, поиск дефектов, рекомендации и корректировку цены.
package grading

import (
	"errors"
	"fmt"

	"produce-grader/internal/domain/entity"
)

// GradeTable упорядоченная таблица порогов классов, от высшего к низшему.
// Последний класс таблицы служит полом для любого балла.
type GradeTable struct {
	thresholds []entity.GradeThreshold
}

// DefaultGradeTable возвращает таблицу A:85, B:70, C:55, D:40.
func DefaultGradeTable() GradeTable {
	table, err := NewGradeTable([]entity.GradeThreshold{
		{Grade: entity.GradeA, MinScore: 85},
		{Grade: entity.GradeB, MinScore: 70},
		{Grade: entity.GradeC, MinScore: 55},
		{Grade: entity.GradeD, MinScore: 40},
	})
	if err != nil {
		panic(err)
	}
	return table
}

// NewGradeTable проверяет, что пороги строго убывают и классы не повторяются.
func NewGradeTable(thresholds []entity.GradeThreshold) (GradeTable, error) {
	if len(thresholds) == 0 {
		return GradeTable{}, errors.New("grade table is empty")
	}

	seen := make(map[entity.Grade]bool, len(thresholds))
	for i, th := range thresholds {
		if seen[th.Grade] {
			return GradeTable{}, fmt.Errorf("grade %s listed twice", th.Grade)
		}
		seen[th.Grade] = true

		if i > 0 && th.MinScore >= thresholds[i-1].MinScore {
			return GradeTable{}, fmt.Errorf("threshold for %s (%.2f) must be below %s (%.2f)",
				th.Grade, th.MinScore, thresholds[i-1].Grade, thresholds[i-1].MinScore)
		}
	}

	return GradeTable{thresholds: append([]entity.GradeThreshold(nil), thresholds...)}, nil
}

// Grade просматривает таблицу сверху вниз и возвращает первый класс,
// порог которого балл достигает. Иначе возвращает последний класс.
func (t GradeTable) Grade(score float64) entity.Grade {
	for _, th := range t.thresholds {
		if score >= th.MinScore {
			return th.Grade
		}
	}
	return t.thresholds[len(t.thresholds)-1].Grade
}

// Thresholds возвращает копию таблицы.
func (t GradeTable) Thresholds() []entity.GradeThreshold {
	return append([]entity.GradeThreshold(nil), t.thresholds...)
}
