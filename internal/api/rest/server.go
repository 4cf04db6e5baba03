package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	app "produce-grader/internal/application"
	"produce-grader/internal/domain/entity"
	"produce-grader/internal/infrastructure/features"
)

// Assessor операции сервиса оценки, нужные HTTP-слою.
type Assessor interface {
	AssessBatch(ctx context.Context, uploads []app.Upload, product entity.ProductInfo) (*entity.BatchResult, error)
	CachedResult(ctx context.Context, requestID string) ([]entity.QualityAssessment, error)
	ModelInfo() entity.ModelInfo
}

// Options параметры HTTP-сервера.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxUploadMB  int64
	// Pool публикуется на /metrics, если задан.
	Pool         features.PoolStats
}

type Handler struct {
	svc          Assessor
	pool         features.PoolStats
	maxUploadMem int64
	now          func() time.Time
}

// NewRouter регистрирует маршруты API.
func NewRouter(svc Assessor, opts Options) *mux.Router {
	h := &Handler{
		svc:          svc,
		pool:         opts.Pool,
		maxUploadMem: opts.MaxUploadMB << 20,
		now:          time.Now,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/analyze", h.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/analyze/{request_id}", h.handleCachedResult).Methods(http.MethodGet)
	r.HandleFunc("/models/info", h.handleModelInfo).Methods(http.MethodGet)
	if h.pool != nil {
		r.HandleFunc("/metrics", h.handleMetrics).Methods(http.MethodGet)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sendErrorResponse(w, "not_found", "Endpoint not found", "", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sendErrorResponse(w, "method_not_allowed", "Method not allowed", "", http.StatusMethodNotAllowed)
	})
	r.Use(logRequests)
	return r
}

// NewServer создаёт http.Server с таймаутами из опций.
func NewServer(svc Assessor, opts Options) *http.Server {
	return &http.Server{
		Handler:      NewRouter(svc, opts),
		Addr:         opts.Addr,
		WriteTimeout: opts.WriteTimeout,
		ReadTimeout:  opts.ReadTimeout,
	}
}
