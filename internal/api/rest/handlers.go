package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	app "produce-grader/internal/application"
	"produce-grader/internal/domain/entity"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Version      string `json:"version"`
	Extractor    string `json:"extractor"`
	Device       string `json:"device"`
	GPUAvailable bool   `json:"gpu_available"`
}

type ImageError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type AnalyzeResponse struct {
	RequestID      string                     `json:"request_id"`
	Results        []entity.QualityAssessment `json:"results"`
	Errors         []ImageError               `json:"errors,omitempty"`
	ProcessingTime float64                    `json:"processing_time"`
	Timestamp      string                     `json:"timestamp"`
}

type CachedResponse struct {
	RequestID string                     `json:"request_id"`
	Results   []entity.QualityAssessment `json:"results"`
	Cached    bool                       `json:"cached"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	info := h.svc.ModelInfo()
	sendJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   info.Version,
		Extractor: info.Extractor,
		Device:    info.Device,
	})
}

func (h *Handler) handleModelInfo(w http.ResponseWriter, _ *http.Request) {
	sendJSON(w, http.StatusOK, h.svc.ModelInfo())
}

func (h *Handler) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := h.pool.Metrics()
	sendJSON(w, http.StatusOK, map[string]any{
		"pool_size":        m.Size,
		"sessions_in_use":  m.InUse,
		"total_acquired":   m.TotalAcquired,
		"total_released":   m.TotalReleased,
		"acquire_failures": m.AcquireFailures,
		"wait_time_ms":     m.WaitTime.Milliseconds(),
	})
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMem)

	uploads, product, err := h.readUploads(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendErrorResponse(w, "payload_too_large", "Upload exceeds the size limit", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		sendErrorResponse(w, "invalid_request", "Failed to read multipart form", err.Error(), http.StatusBadRequest)
		return
	}
	if len(uploads) == 0 {
		sendErrorResponse(w, "no_images", "No images provided", "", http.StatusBadRequest)
		return
	}

	batch, err := h.svc.AssessBatch(r.Context(), uploads, product)
	if err != nil {
		sendServiceError(w, err, "Internal processing error")
		return
	}

	resp := AnalyzeResponse{
		RequestID:      batch.RequestID,
		Results:        batch.Assessments(),
		ProcessingTime: batch.ProcessingTimeSeconds,
		Timestamp:      batch.TimestampUTC,
	}
	for _, item := range batch.Failed() {
		resp.Errors = append(resp.Errors, ImageError{Filename: item.Filename, Error: item.Err.Error()})
	}
	sendJSON(w, http.StatusOK, resp)
}

// readUploads читает файлы поля images. Части без имени файла пропускаются.
func (h *Handler) readUploads(r *http.Request) ([]app.Upload, entity.ProductInfo, error) {
	if err := r.ParseMultipartForm(h.maxUploadMem); err != nil {
		return nil, entity.ProductInfo{}, err
	}

	product := entity.ProductInfo{
		Type:     r.FormValue("product_type"),
		Category: r.FormValue("product_category"),
	}.Normalized()

	var uploads []app.Upload
	for _, fh := range r.MultipartForm.File["images"] {
		if fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, product, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, product, err
		}
		uploads = append(uploads, app.Upload{Filename: fh.Filename, Data: data})
	}
	return uploads, product, nil
}

func (h *Handler) handleCachedResult(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["request_id"]

	results, err := h.svc.CachedResult(r.Context(), requestID)
	if err != nil {
		sendServiceError(w, err, "Cache retrieval error")
		return
	}

	sendJSON(w, http.StatusOK, CachedResponse{
		RequestID: requestID,
		Results:   results,
		Cached:    true,
	})
}

// sendServiceError переводит ошибки сервиса в HTTP-статусы.
// fallback уходит клиенту вместо текста непредвиденной ошибки.
func sendServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrUnsupportedFormat):
		sendErrorResponse(w, "unsupported_format", "Unsupported file format", err.Error(), http.StatusBadRequest)
	case errors.Is(err, entity.ErrNoImagesProcessed):
		sendErrorResponse(w, "no_images_processed", "No images could be processed", err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, entity.ErrCacheUnavailable):
		sendErrorResponse(w, "cache_unavailable", "Cache not available", "", http.StatusServiceUnavailable)
	case errors.Is(err, entity.ErrResultNotFound):
		sendErrorResponse(w, "not_found", "Result not found or expired", "", http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		sendErrorResponse(w, "timeout", "Request cancelled or timed out", err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("Internal error: %v", err)
		sendErrorResponse(w, "internal_error", fallback, "", http.StatusInternalServerError)
	}
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func sendErrorResponse(w http.ResponseWriter, code, message, details string, status int) {
	sendJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}
