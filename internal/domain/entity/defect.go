package entity

// DefectType тип дефекта продукта
type DefectType string

const (
	DefectBrownSpots    DefectType = "brown_spots"   // Бурые/некротические пятна
	DefectDiscoloration DefectType = "discoloration" // Потеря окраски
	DefectPoorLighting  DefectType = "poor_lighting" // Плохое освещение снимка
)

// BoundingBox представляет область с обнаруженным дефектом
type BoundingBox struct {
	X      int `json:"x"`      // координата X левого верхнего угла
	Y      int `json:"y"`      // координата Y левого верхнего угла
	Width  int `json:"width"`  // ширина области в пикселях
	Height int `json:"height"` // высота области в пикселях
}

// Center возвращает координаты центра области
func (b BoundingBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Area возвращает площадь области в пикселях
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Defect описывает найденный дефект.
type Defect struct {
	Type       DefectType   `json:"type"`
	Severity   float64      `json:"severity"` // 0..1
	Location   *BoundingBox `json:"location"`
	Confidence float64      `json:"confidence"` // 0..1
}
