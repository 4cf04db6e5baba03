package entity

// Grade класс качества продукта
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Rank возвращает порядковый вес класса: чем выше класс, тем больше число.
func (g Grade) Rank() int {
	switch g {
	case GradeA:
		return 4
	case GradeB:
		return 3
	case GradeC:
		return 2
	case GradeD:
		return 1
	default:
		return 0
	}
}

// GradeThreshold минимальный балл для класса.
type GradeThreshold struct {
	Grade    Grade   `json:"grade"`
	MinScore float64 `json:"min_score"`
}
