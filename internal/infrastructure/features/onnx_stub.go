//go:build !onnx
// +build !onnx

package features

import (
	"context"
	"errors"
	"image"

	"produce-grader/internal/domain/entity"
)

// ErrONNXDisabled бинарник собран без тега onnx.
var ErrONNXDisabled = errors.New("onnx build tag is not enabled")

// InitONNXEnvironment возвращает ошибку, если сборка без тега onnx.
func InitONNXEnvironment(string) error {
	return ErrONNXDisabled
}

// DestroyONNXEnvironment ничего не делает без тега onnx.
func DestroyONNXEnvironment() error {
	return nil
}

// ONNXConfig параметры модели-бэкбона.
type ONNXConfig struct {
	ModelPath  string
	InputName  string
	OutputName string
	OutputSize int
	PoolSize   int
}

// ONNXExtractor заглушка без onnxruntime.
type ONNXExtractor struct{}

// NewONNXExtractor возвращает ошибку, если сборка без тега onnx.
func NewONNXExtractor(ONNXConfig, int) (*ONNXExtractor, error) {
	return nil, ErrONNXDisabled
}

// Name возвращает "onnx".
func (e *ONNXExtractor) Name() string {
	return KindONNX
}

// Extract возвращает ошибку, если сборка без тега onnx.
func (e *ONNXExtractor) Extract(context.Context, image.Image) (entity.FeatureVector, error) {
	return nil, ErrONNXDisabled
}

// Metrics всегда пуст без тега onnx.
func (e *ONNXExtractor) Metrics() PoolMetrics {
	return PoolMetrics{}
}

// Close ничего не делает без тега onnx.
func (e *ONNXExtractor) Close() error {
	return nil
}
