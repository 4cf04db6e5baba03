package telegram

import (
	"errors"
	"fmt"
	"strings"

	"produce-grader/internal/domain/entity"
)

var defectNames = map[entity.DefectType]string{
	entity.DefectBrownSpots:    "бурые пятна",
	entity.DefectDiscoloration: "потеря окраски",
	entity.DefectPoorLighting:  "плохое освещение",
}

var gradeEmoji = map[entity.Grade]string{
	entity.GradeA: "🟢",
	entity.GradeB: "🟡",
	entity.GradeC: "🟠",
	entity.GradeD: "🔴",
}

// parseProduct разбирает аргументы /product: тип и необязательная категория.
func parseProduct(args string) (entity.ProductInfo, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return entity.ProductInfo{}, false
	}

	product := entity.ProductInfo{Type: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		product.Category = strings.ToLower(strings.Join(fields[1:], " "))
	}
	return product.Normalized(), true
}

// formatAssessment собирает текст ответа с результатом оценки.
func formatAssessment(product entity.ProductInfo, a *entity.QualityAssessment) string {
	var sb strings.Builder

	sb.WriteString("📊 Результат проверки")
	if product.Type != "" && product.Type != entity.UnknownProduct {
		fmt.Fprintf(&sb, ": %s", product.Type)
		if product.Category != "" && product.Category != entity.UnknownProduct {
			fmt.Fprintf(&sb, " (%s)", product.Category)
		}
	}
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "%s Класс: %s\n", gradeEmoji[a.Grade], a.Grade)
	fmt.Fprintf(&sb, "Оценка качества: %.1f/100\n", a.QualityScore)
	fmt.Fprintf(&sb, "Уверенность: %.1f%%\n", a.ConfidenceScore)
	fmt.Fprintf(&sb, "Корректировка цены: %+.0f%%\n", a.PriceAdjustmentPercentage)

	if len(a.Defects) == 0 {
		sb.WriteString("\n✅ Дефекты не обнаружены.\n")
	} else {
		sb.WriteString("\n🔍 Дефекты:\n")
		for _, d := range a.Defects {
			name, ok := defectNames[d.Type]
			if !ok {
				name = string(d.Type)
			}
			if loc := d.Location; loc != nil {
				x, y := loc.Center()
				fmt.Fprintf(&sb, "• %s (серьёзность %.2f, центр %d,%d, площадь %d px)\n", name, d.Severity, x, y, loc.Area())
				continue
			}
			fmt.Fprintf(&sb, "• %s (серьёзность %.2f)\n", name, d.Severity)
		}
	}

	if len(a.Recommendations) > 0 {
		sb.WriteString("\n💡 Рекомендации:\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(&sb, "• %s\n", r)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrUnsupportedFormat):
		return msgUnsupportedFile
	default:
		return msgProcessingError
	}
}
