package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Model     ModelConfig     `mapstructure:"model"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Scorer    ScorerConfig    `mapstructure:"scorer"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Workers   int             `mapstructure:"workers"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type ModelConfig struct {
	Version      string `mapstructure:"version"`
	MaxImageSize int    `mapstructure:"max_image_size"`
}

type ExtractorConfig struct {
	Kind   string       `mapstructure:"kind"`
	ONNX   ONNXConfig   `mapstructure:"onnx"`
	Remote RemoteConfig `mapstructure:"remote"`
}

type ONNXConfig struct {
	ModelPath   string `mapstructure:"model_path"`
	LibraryPath string `mapstructure:"library_path"`
	PoolSize    int    `mapstructure:"pool_size"`
	InputName   string `mapstructure:"input_name"`
	OutputName  string `mapstructure:"output_name"`
	OutputSize  int    `mapstructure:"output_size"`
}

type RemoteConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ScorerConfig struct {
	Mode        string `mapstructure:"mode"`
	Seed        uint64 `mapstructure:"seed"` // 0 - от текущего времени
	WeightsFile string `mapstructure:"weights_file"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	DSN     string        `mapstructure:"dsn"`
	TTL     time.Duration `mapstructure:"ttl"`
}

var (
	extractorKinds = []string{"histogram", "onnx", "remote"}
	scorerModes    = []string{"simulated", "linear"}
	cacheBackends  = []string{"none", "memory", "sqlite", "postgres", "mysql", "redis"}
)

// Load читает .env, grader.yaml и переменные окружения GRADER_*.
func Load(configFile string) (*Config, error) {
	return LoadFrom(viper.New(), configFile)
}

// LoadFrom то же, что Load, но поверх переданного viper с уже привязанными флагами.
func LoadFrom(v *viper.Viper, configFile string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	setDefaults(v)

	v.SetEnvPrefix("GRADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// TELEGRAM_TOKEN оставлен для совместимости со старыми .env
	if err := v.BindEnv("telegram.token", "GRADER_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("grader")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":5000")
	v.SetDefault("http.read_timeout", 60*time.Second)
	v.SetDefault("http.write_timeout", 60*time.Second)
	v.SetDefault("http.max_upload_mb", 32)
	v.SetDefault("telegram.token", "")
	v.SetDefault("model.version", "1.0.0")
	v.SetDefault("model.max_image_size", 2048)
	v.SetDefault("extractor.kind", "histogram")
	v.SetDefault("extractor.onnx.model_path", "")
	v.SetDefault("extractor.onnx.library_path", "")
	v.SetDefault("extractor.onnx.pool_size", 4)
	v.SetDefault("extractor.onnx.input_name", "input")
	v.SetDefault("extractor.onnx.output_name", "output")
	v.SetDefault("extractor.onnx.output_size", 1000)
	v.SetDefault("extractor.remote.url", "")
	v.SetDefault("extractor.remote.timeout", 10*time.Second)
	v.SetDefault("scorer.mode", "simulated")
	v.SetDefault("scorer.seed", 0)
	v.SetDefault("scorer.weights_file", "")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.dsn", "")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("workers", runtime.NumCPU())
}

// Validate проверяет перечисления, размеры и обязательные пути.
func (c *Config) Validate() error {
	if !slices.Contains(extractorKinds, c.Extractor.Kind) {
		return fmt.Errorf("invalid extractor kind: %s. Must be one of %s", c.Extractor.Kind, strings.Join(extractorKinds, ", "))
	}
	switch c.Extractor.Kind {
	case "onnx":
		if c.Extractor.ONNX.ModelPath == "" {
			return errors.New("extractor.onnx.model_path is required for the onnx extractor")
		}
		if c.Extractor.ONNX.PoolSize < 1 || c.Extractor.ONNX.OutputSize < 1 {
			return errors.New("extractor.onnx.pool_size and output_size must be at least 1")
		}
	case "remote":
		if c.Extractor.Remote.URL == "" {
			return errors.New("extractor.remote.url is required for the remote extractor")
		}
	}

	if !slices.Contains(scorerModes, c.Scorer.Mode) {
		return fmt.Errorf("invalid scorer mode: %s. Must be one of %s", c.Scorer.Mode, strings.Join(scorerModes, ", "))
	}
	if c.Scorer.Mode == "linear" && c.Scorer.WeightsFile == "" {
		return errors.New("scorer.weights_file is required in linear mode")
	}

	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return fmt.Errorf("invalid cache backend: %s. Must be one of %s", c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if (c.Cache.Backend == "postgres" || c.Cache.Backend == "mysql") && c.Cache.DSN == "" {
		return fmt.Errorf("cache.dsn is required for the %s backend", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}

	if c.Model.MaxImageSize < 1 {
		return errors.New("model.max_image_size must be at least 1")
	}
	if c.HTTP.MaxUploadMB < 1 {
		return errors.New("http.max_upload_mb must be at least 1")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	return nil
}
