package container

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"produce-grader/config"
	app "produce-grader/internal/application"
	"produce-grader/internal/domain/grading"
	"produce-grader/internal/domain/port"
	"produce-grader/internal/infrastructure/cache"
	"produce-grader/internal/infrastructure/features"
	"produce-grader/internal/infrastructure/storage"
	"produce-grader/internal/infrastructure/vision"
)

type Container struct {
	UserService       *app.UserService
	AssessmentService *app.AssessmentService
	// ExtractorPool задан только для экстрактора с пулом сессий.
	ExtractorPool     features.PoolStats

	closers []func() error
}

// New собирает сервисы по конфигурации. Недоступный кэш не считается ошибкой:
// сервис работает без кэша.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	extractor, err := c.newExtractor(cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	scorer, err := newScorer(cfg.Scorer)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	resultCache, err := cache.New(ctx, cache.Backend(cfg.Cache.Backend), cfg.Cache.DSN)
	if err != nil {
		log.Printf("Cache %s unavailable, results will not be cached: %v", cfg.Cache.Backend, err)
		resultCache = nil
	} else {
		c.closers = append(c.closers, resultCache.Close)
	}

	userRepo := storage.NewMemoryUserRepository()
	c.UserService = app.NewUserService(userRepo)
	c.AssessmentService = app.NewAssessmentService(
		vision.NewDecoder(),
		vision.NewColorAnalyzer(),
		extractor,
		grading.NewEngine(scorer, grading.DefaultGradeTable()),
		resultCache,
		app.AssessmentOptions{
			ModelVersion: cfg.Model.Version,
			Device:       deviceFor(cfg.Extractor.Kind),
			MaxImageSize: cfg.Model.MaxImageSize,
			Workers:      cfg.Workers,
			CacheTTL:     cfg.Cache.TTL,
		},
	)

	return c, nil
}

func (c *Container) newExtractor(cfg *config.Config) (port.FeatureExtractor, error) {
	maxSide := cfg.Model.MaxImageSize

	switch cfg.Extractor.Kind {
	case features.KindHistogram:
		return features.NewHistogramExtractor(maxSide), nil

	case features.KindRemote:
		return features.NewRemoteExtractor(cfg.Extractor.Remote.URL, cfg.Extractor.Remote.Timeout, maxSide), nil

	case features.KindONNX:
		onnxCfg := cfg.Extractor.ONNX
		if err := features.InitONNXEnvironment(onnxCfg.LibraryPath); err != nil {
			return nil, fmt.Errorf("init onnxruntime: %w", err)
		}
		c.closers = append(c.closers, features.DestroyONNXEnvironment)

		extractor, err := features.NewONNXExtractor(features.ONNXConfig{
			ModelPath:  onnxCfg.ModelPath,
			InputName:  onnxCfg.InputName,
			OutputName: onnxCfg.OutputName,
			OutputSize: onnxCfg.OutputSize,
			PoolSize:   onnxCfg.PoolSize,
		}, maxSide)
		if err != nil {
			return nil, fmt.Errorf("load onnx model: %w", err)
		}
		c.closers = append(c.closers, extractor.Close)
		c.ExtractorPool = extractor
		return extractor, nil

	default:
		return nil, fmt.Errorf("unknown extractor kind: %s", cfg.Extractor.Kind)
	}
}

// deviceFor описывает, где считаются признаки. ONNX работает только с CPU-провайдером.
func deviceFor(kind string) string {
	switch kind {
	case features.KindONNX:
		return "onnx-cpu"
	case features.KindRemote:
		return "remote"
	default:
		return "cpu"
	}
}

func newScorer(cfg config.ScorerConfig) (grading.Scorer, error) {
	switch cfg.Mode {
	case grading.ModeSimulated:
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return grading.NewSeededScorer(seed), nil

	case grading.ModeLinear:
		weights, err := grading.LoadLinearWeights(cfg.WeightsFile)
		if err != nil {
			return nil, err
		}
		return grading.NewLinearScorer(weights)

	default:
		return nil, fmt.Errorf("unknown scorer mode: %s", cfg.Mode)
	}
}

// Close освобождает ресурсы в обратном порядке создания.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
