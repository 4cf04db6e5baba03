package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/grading"
	"produce-grader/internal/domain/port"
)

// DefaultCacheTTL время жизни результата анализа в кэше.
const DefaultCacheTTL = time.Hour

// Upload файл изображения из запроса.
type Upload struct {
	Filename string
	Data     []byte
}

// AssessmentOptions параметры сервиса оценки.
type AssessmentOptions struct {
	ModelVersion string
	Device       string
	MaxImageSize int
	Workers      int
	CacheTTL     time.Duration
}

// AssessmentService прогоняет снимки через конвейер оценки качества.
type AssessmentService struct {
	decoder   port.ImageDecoder
	analyzer  port.ColorAnalyzer
	extractor port.FeatureExtractor
	engine    *grading.Engine
	cache     port.ResultCache
	opts      AssessmentOptions

	now   func() time.Time
	newID func() string
}

// NewAssessmentService создаёт сервис. cache может быть nil.
func NewAssessmentService(
	decoder port.ImageDecoder,
	analyzer port.ColorAnalyzer,
	extractor port.FeatureExtractor,
	engine *grading.Engine,
	cache port.ResultCache,
	opts AssessmentOptions,
) *AssessmentService {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Device == "" {
		opts.Device = "cpu"
	}

	return &AssessmentService{
		decoder:   decoder,
		analyzer:  analyzer,
		extractor: extractor,
		engine:    engine,
		cache:     cache,
		opts:      opts,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Assess оценивает одно декодированное изображение.
// Цветовой анализ идёт по исходному разрешению, экстрактор сам уменьшает копию.
// Товар пока не влияет на оценку.
func (s *AssessmentService) Assess(ctx context.Context, img image.Image, _ entity.ProductInfo) (*entity.QualityAssessment, error) {
	start := s.now()

	colors, err := s.analyzer.Analyze(img)
	if err != nil {
		return nil, fmt.Errorf("analyze colors: %w", err)
	}

	features, err := s.extractor.Extract(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrFeatureExtraction, s.extractor.Name(), err)
	}

	result, err := s.engine.Score(features, colors)
	if err != nil {
		return nil, fmt.Errorf("score image: %w", err)
	}

	defects := grading.DetectDefects(colors, result.Score)
	finished := s.now()

	return &entity.QualityAssessment{
		QualityScore:              result.Score,
		Grade:                     result.Grade,
		Defects:                   defects,
		Recommendations:           grading.Recommend(result.Score, defects),
		PriceAdjustmentPercentage: grading.PriceAdjustment(result.Score, defects),
		ConfidenceScore:           result.Confidence,
		ProcessingTimeSeconds:     finished.Sub(start).Seconds(),
		ModelVersion:              s.opts.ModelVersion,
		TimestampUTC:              finished.UTC().Format(time.RFC3339),
	}, nil
}

// AssessUpload проверяет расширение, декодирует файл и оценивает его.
func (s *AssessmentService) AssessUpload(ctx context.Context, filename string, data []byte, product entity.ProductInfo) (*entity.QualityAssessment, error) {
	img, err := s.decoder.Decode(filename, data)
	if err != nil {
		return nil, err
	}
	return s.Assess(ctx, img, product)
}

// AssessBatch оценивает пакет параллельно, сохраняя порядок загрузки.
// Неподдерживаемое расширение хотя бы у одного файла отклоняет весь пакет.
// Ошибка возвращается, только если не удалось обработать ни один снимок.
func (s *AssessmentService) AssessBatch(ctx context.Context, uploads []Upload, product entity.ProductInfo) (*entity.BatchResult, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no images provided", entity.ErrNoImagesProcessed)
	}
	for _, u := range uploads {
		if !s.decoder.Supports(u.Filename) {
			return nil, fmt.Errorf("%w: %q", entity.ErrUnsupportedFormat, u.Filename)
		}
	}

	start := s.now()
	product = product.Normalized()
	requestID := s.newID()
	items := make([]entity.ImageResult, len(uploads))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, u := range uploads {
		g.Go(func() error {
			assessment, err := s.AssessUpload(ctx, u.Filename, u.Data, product)
			items[i] = entity.ImageResult{
				Index:      i,
				Filename:   u.Filename,
				Assessment: assessment,
				Err:        err,
			}
			if err != nil {
				log.Printf("analysis %s: image %q failed: %v", requestID, u.Filename, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	batch := &entity.BatchResult{
		RequestID:             requestID,
		Items:                 items,
		ProcessingTimeSeconds: s.now().Sub(start).Seconds(),
		TimestampUTC:          s.now().UTC().Format(time.RFC3339),
	}

	assessments := batch.Assessments()
	if len(assessments) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		errs := make([]error, 0, len(items))
		for _, item := range items {
			errs = append(errs, item.Err)
		}
		return nil, fmt.Errorf("%w: %w", entity.ErrNoImagesProcessed, errors.Join(errs...))
	}

	log.Printf("analysis %s: %d/%d images processed (%s/%s)",
		requestID, len(assessments), len(uploads), product.Type, product.Category)

	s.storeResults(ctx, requestID, assessments)
	return batch, nil
}

// storeResults пишет результаты в кэш. Ошибки только логируются.
func (s *AssessmentService) storeResults(ctx context.Context, requestID string, assessments []entity.QualityAssessment) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(assessments)
	if err != nil {
		log.Printf("analysis %s: encode results for cache: %v", requestID, err)
		return
	}
	if err := s.cache.Put(ctx, CacheKey(requestID), data, s.opts.CacheTTL); err != nil {
		log.Printf("analysis %s: cache results: %v", requestID, err)
	}
}

// CachedResult читает результаты пакета из кэша.
func (s *AssessmentService) CachedResult(ctx context.Context, requestID string) ([]entity.QualityAssessment, error) {
	if s.cache == nil {
		return nil, entity.ErrCacheUnavailable
	}

	data, err := s.cache.Get(ctx, CacheKey(requestID))
	switch {
	case errors.Is(err, entity.ErrCacheMiss):
		return nil, entity.ErrResultNotFound
	case errors.Is(err, entity.ErrCacheUnavailable):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: %w", entity.ErrCacheUnavailable, err)
	}

	var assessments []entity.QualityAssessment
	if err := json.Unmarshal(data, &assessments); err != nil {
		return nil, fmt.Errorf("decode cached result %s: %w", requestID, err)
	}
	return assessments, nil
}

// ModelInfo описывает текущую конфигурацию конвейера.
func (s *AssessmentService) ModelInfo() entity.ModelInfo {
	return entity.ModelInfo{
		Version:           s.opts.ModelVersion,
		Device:            s.opts.Device,
		Extractor:         s.extractor.Name(),
		ScorerMode:        s.engine.Mode(),
		SupportedFormats:  s.decoder.SupportedFormats(),
		QualityThresholds: s.engine.Grades().Thresholds(),
		MaxImageSize:      s.opts.MaxImageSize,
	}
}

// CacheKey ключ результатов пакета в кэше.
func CacheKey(requestID string) string {
	return "analysis:" + requestID
}
