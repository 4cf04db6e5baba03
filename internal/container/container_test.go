package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-grader/config"
	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/grading"
	"produce-grader/internal/infrastructure/features"
)

func baseConfig() *config.Config {
	return &config.Config{
		Model:     config.ModelConfig{Version: "1.0.0", MaxImageSize: 2048},
		Extractor: config.ExtractorConfig{Kind: "histogram"},
		Scorer:    config.ScorerConfig{Mode: "simulated", Seed: 7},
		Cache:     config.CacheConfig{Backend: "memory", TTL: time.Hour},
		Workers:   2,
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(context.Background(), baseConfig())
	require.NoError(t, err)
	defer c.Close()

	info := c.AssessmentService.ModelInfo()
	assert.Equal(t, features.KindHistogram, info.Extractor)
	assert.Equal(t, grading.ModeSimulated, info.ScorerMode)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "cpu", info.Device)

	_, err = c.AssessmentService.CachedResult(context.Background(), "unknown")
	require.ErrorIs(t, err, entity.ErrResultNotFound)

	user, err := c.UserService.BeginCheck(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.StateAwaitingPhoto, user.State)
}

func TestNew_LinearScorer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bias: 70\nweights: [0, 0]\n"), 0o600))

	cfg := baseConfig()
	cfg.Scorer = config.ScorerConfig{Mode: "linear", WeightsFile: path}

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, grading.ModeLinear, c.AssessmentService.ModelInfo().ScorerMode)
}

func TestNew_Errors(t *testing.T) {
	cfg := baseConfig()
	cfg.Scorer = config.ScorerConfig{Mode: "linear", WeightsFile: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := New(context.Background(), cfg)
	require.Error(t, err)

	cfg = baseConfig()
	cfg.Extractor = config.ExtractorConfig{Kind: "onnx", ONNX: config.ONNXConfig{ModelPath: "missing.onnx", PoolSize: 1, OutputSize: 1000}}
	_, err = New(context.Background(), cfg)
	require.Error(t, err)
}

func TestNew_UnreachableCacheFallsBack(t *testing.T) {
	cfg := baseConfig()
	cfg.Cache.Backend = "redis"
	cfg.Cache.DSN = "redis://127.0.0.1:1/0"

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.AssessmentService.CachedResult(context.Background(), "x")
	require.ErrorIs(t, err, entity.ErrCacheUnavailable)
}

func TestDeviceFor(t *testing.T) {
	assert.Equal(t, "cpu", deviceFor(features.KindHistogram))
	assert.Equal(t, "onnx-cpu", deviceFor(features.KindONNX))
	assert.Equal(t, "remote", deviceFor(features.KindRemote))
}

func TestNew_RemoteExtractorDevice(t *testing.T) {
	cfg := baseConfig()
	cfg.Extractor.Kind = features.KindRemote
	cfg.Extractor.Remote.URL = "http://127.0.0.1:1/features"

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "remote", c.AssessmentService.ModelInfo().Device)
}
