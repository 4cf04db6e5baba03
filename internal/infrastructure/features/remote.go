package features

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

var _ port.FeatureExtractor = (*RemoteExtractor)(nil)

// RemoteExtractor получает признаки от внешнего сервиса инференса.
type RemoteExtractor struct {
	endpoint string
	client   *http.Client
	maxSide  int
}

// NewRemoteExtractor создаёт HTTP-клиент с таймаутом.
func NewRemoteExtractor(endpoint string, timeout time.Duration, maxSide int) *RemoteExtractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteExtractor{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
		maxSide: maxSide,
	}
}

type FeatureRequest struct {
	Image  []byte `json:"image"` // JPEG InputSize x InputSize, base64 в JSON
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type FeatureResponse struct {
	Features []float32 `json:"features"`
}

// Name возвращает "remote".
func (e *RemoteExtractor) Name() string {
	return KindRemote
}

// Extract отправляет уменьшенный JPEG и читает вектор из ответа.
func (e *RemoteExtractor) Extract(ctx context.Context, img image.Image) (entity.FeatureVector, error) {
	resized := imaging.Resize(Downscale(img, e.maxSide), InputSize, InputSize, imaging.Lanczos)

	var encoded bytes.Buffer
	if err := imaging.Encode(&encoded, resized, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	body, err := json.Marshal(FeatureRequest{Image: encoded.Bytes(), Width: InputSize, Height: InputSize})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feature request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create feature request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feature service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feature service returned status: %d", resp.StatusCode)
	}

	var out FeatureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode feature response: %w", err)
	}
	if len(out.Features) == 0 {
		return nil, fmt.Errorf("feature service returned an empty vector")
	}

	return entity.FeatureVector(out.Features), nil
}
