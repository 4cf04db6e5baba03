package entity

// QualityAssessment хранит итог оценки одного снимка.
type QualityAssessment struct {
	QualityScore              float64  `json:"quality_score"` // 0..100
	Grade                     Grade    `json:"grade"`
	Defects                   []Defect `json:"defects"`
	Recommendations           []string `json:"recommendations"`
	PriceAdjustmentPercentage float64  `json:"price_adjustment_percentage"` // -50..20
	ConfidenceScore           float64  `json:"confidence_score"`            // 0..100
	ProcessingTimeSeconds     float64  `json:"processing_time"`
	ModelVersion              string   `json:"model_version"`
	TimestampUTC              string   `json:"timestamp"` // RFC 3339, UTC
}

// ProductInfo метаданные товара из запроса.
type ProductInfo struct {
	Type     string `json:"product_type"`
	Category string `json:"product_category"`
}

// UnknownProduct значение по умолчанию для пустых полей товара.
const UnknownProduct = "unknown"

// Normalized подставляет значения по умолчанию в пустые поля.
func (p ProductInfo) Normalized() ProductInfo {
	if p.Type == "" {
		p.Type = UnknownProduct
	}
	if p.Category == "" {
		p.Category = UnknownProduct
	}
	return p
}

// ImageResult результат обработки одного файла из пакета.
type ImageResult struct {
	Index      int
	Filename   string
	Assessment *QualityAssessment
	Err        error
}

// BatchResult хранит результаты пакета в порядке загрузки.
type BatchResult struct {
	RequestID             string
	Items                 []ImageResult
	ProcessingTimeSeconds float64
	TimestampUTC          string
}

// Assessments возвращает успешные оценки в порядке загрузки.
func (b *BatchResult) Assessments() []QualityAssessment {
	out := make([]QualityAssessment, 0, len(b.Items))
	for _, item := range b.Items {
		if item.Err == nil && item.Assessment != nil {
			out = append(out, *item.Assessment)
		}
	}
	return out
}

// Failed возвращает элементы, которые не удалось обработать.
func (b *BatchResult) Failed() []ImageResult {
	var out []ImageResult
	for _, item := range b.Items {
		if item.Err != nil {
			out = append(out, item)
		}
	}
	return out
}

// ModelInfo описывает модель для служебных эндпоинтов.
type ModelInfo struct {
	Version           string           `json:"version"`
	Device            string           `json:"device"`
	Extractor         string           `json:"extractor"`
	ScorerMode        string           `json:"scorer_mode"`
	SupportedFormats  []string         `json:"supported_formats"`
	QualityThresholds []GradeThreshold `json:"quality_thresholds"`
	MaxImageSize      int              `json:"max_image_size"`
}
