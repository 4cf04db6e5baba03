package entity

// ColorProfile хранит цветовую статистику снимка в пространстве HSV.
// Тон в 8-битной шкале OpenCV (0..180), насыщенность и яркость 0..255.
type ColorProfile struct {
	MeanHue             float64 `json:"mean_hue"`
	MeanSaturation      float64 `json:"mean_saturation"`
	MeanValue           float64 `json:"mean_value"`
	BrownSpotPercentage float64 `json:"brown_spot_percentage"` // 0..100
}

// FeatureVector выход экстрактора признаков, ядро его не интерпретирует.
type FeatureVector []float32
