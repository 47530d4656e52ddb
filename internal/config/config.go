package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	Shards int `yaml:"shards"`
}

type ImagesConfig struct {
	Dir     string `yaml:"dir"`
	MaxSize int64  `yaml:"max_size"`
}

type RateLimitConfig struct {
	WritesPerSecond float64 `yaml:"writes_per_second"`
	WriteBurst      int     `yaml:"write_burst"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Images    ImagesConfig    `yaml:"images"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load reads the YAML file at path (skipped when path is empty), fills
// defaults, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	setDefaults(&cfg)
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Store.Shards == 0 {
		cfg.Store.Shards = 32
	}

	if cfg.Images.Dir == "" {
		cfg.Images.Dir = "img"
	}
	if cfg.Images.MaxSize == 0 {
		cfg.Images.MaxSize = 1 << 20
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnv lets deployments override the file without editing it.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookup("IMAGE_DIR"); ok && v != "" {
		cfg.Images.Dir = v
	}
	if v, ok := lookup("METRICS_TOKEN"); ok && v != "" {
		cfg.Metrics.Token = v
		cfg.Metrics.Enabled = true
	}
	if v, ok := lookup("STORE_SHARDS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STORE_SHARDS: %w", err)
		}
		cfg.Store.Shards = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Store.Shards < 1 || c.Store.Shards > 1<<16 {
		return fmt.Errorf("store.shards must be between 1 and 65536")
	}
	if c.Images.MaxSize < 0 {
		return fmt.Errorf("images.max_size must not be negative")
	}
	if c.RateLimit.WritesPerSecond < 0 || c.RateLimit.WriteBurst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.Token == "" {
		return fmt.Errorf("metrics.token is required when metrics are enabled")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
