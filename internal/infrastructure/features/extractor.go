package features

// Виды экстракторов признаков.
const (
	KindHistogram = "histogram"
	KindONNX      = "onnx"
	KindRemote    = "remote"
)

// Kinds возвращает все известные виды.
func Kinds() []string {
	return []string{KindHistogram, KindONNX, KindRemote}
}
