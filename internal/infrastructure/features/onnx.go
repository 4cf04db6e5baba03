//go:build onnx
// +build onnx

package features

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

var (
	envOnce sync.Once
	envErr  error
)

// InitONNXEnvironment инициализирует onnxruntime один раз на процесс.
func InitONNXEnvironment(libraryPath string) error {
	envOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

// DestroyONNXEnvironment освобождает окружение onnxruntime.
func DestroyONNXEnvironment() error {
	return ort.DestroyEnvironment()
}

// ONNXConfig параметры модели-бэкбона.
type ONNXConfig struct {
	ModelPath  string
	InputName  string
	OutputName string
	OutputSize int
	PoolSize   int
}

type onnxSession struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func (s *onnxSession) destroy() {
	if s.session != nil {
		s.session.Destroy()
	}
	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
}

var _ port.FeatureExtractor = (*ONNXExtractor)(nil)

// ONNXExtractor берёт выход бэкбона (логиты) как вектор признаков.
type ONNXExtractor struct {
	pool    *SessionPool[*onnxSession]
	cfg     ONNXConfig
	maxSide int
}

// NewONNXExtractor создаёт пул сессий. Окружение должно быть уже инициализировано.
func NewONNXExtractor(cfg ONNXConfig, maxSide int) (*ONNXExtractor, error) {
	pool, err := NewSessionPool(cfg.PoolSize, func() (*onnxSession, error) {
		return newONNXSession(cfg)
	}, func(s *onnxSession) {
		s.destroy()
	})
	if err != nil {
		return nil, err
	}
	return &ONNXExtractor{pool: pool, cfg: cfg, maxSide: maxSide}, nil
}

func newONNXSession(cfg ONNXConfig) (*onnxSession, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("error creating session options: %w", err)
	}
	defer options.Destroy()

	// Параллелизм даёт пул, сессии однопоточные.
	if err := options.SetIntraOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("error configuring session: %w", err)
	}
	if err := options.SetInterOpNumThreads(max(1, runtime.NumCPU()/max(cfg.PoolSize, 1))); err != nil {
		return nil, fmt.Errorf("error configuring session: %w", err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, InputSize, InputSize))
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.OutputSize)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &onnxSession{session: session, input: input, output: output}, nil
}

// Name возвращает "onnx".
func (e *ONNXExtractor) Name() string {
	return KindONNX
}

// Extract уменьшает изображение, нормализует его и прогоняет через модель.
func (e *ONNXExtractor) Extract(ctx context.Context, img image.Image) (entity.FeatureVector, error) {
	session, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}

	if err := FillTensorCHW(Downscale(img, e.maxSide), session.input.GetData()); err != nil {
		e.pool.Release(session)
		return nil, fmt.Errorf("prepare input buffer: %w", err)
	}

	if err := session.session.Run(); err != nil {
		e.pool.Discard(session)
		return nil, fmt.Errorf("model inference: %w", err)
	}

	out := session.output.GetData()
	vec := make(entity.FeatureVector, len(out))
	copy(vec, out)
	e.pool.Release(session)

	return vec, nil
}

// Metrics возвращает счётчики пула сессий.
func (e *ONNXExtractor) Metrics() PoolMetrics {
	return e.pool.Metrics()
}

// Close уничтожает сессии.
func (e *ONNXExtractor) Close() error {
	e.pool.Close()
	return nil
}
