package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. DISCOUNTS_WORKBOOK_PATH.
const EnvPrefix = "DISCOUNTS"

// Workbook sources
const (
	SourceFile  = "file"
	SourceMinio = "minio"
)

type Config struct {
	Server    ServerConfig    `yaml:"server" split_words:"true"`
	Workbook  WorkbookConfig  `yaml:"workbook" split_words:"true"`
	Query     QueryConfig     `yaml:"query" split_words:"true"`
	Log       LogConfig       `yaml:"log" split_words:"true"`
	RateLimit RateLimitConfig `yaml:"rate_limit" split_words:"true"`
	Metrics   MetricsConfig   `yaml:"metrics" split_words:"true"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" split_words:"true"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
}

// WorkbookConfig locates the contract workbook. The workbook is re-read on
// every request, so replacing the file takes effect immediately.
type WorkbookConfig struct {
	Source string      `yaml:"source" split_words:"true"` // file, minio
	Path   string      `yaml:"path" split_words:"true"`
	Minio  MinioConfig `yaml:"minio" split_words:"true"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" split_words:"true"`
	AccessKey string `yaml:"access_key" split_words:"true"`
	SecretKey string `yaml:"secret_key" split_words:"true"`
	Region    string `yaml:"region" split_words:"true"`
	Bucket    string `yaml:"bucket" split_words:"true"`
	Object    string `yaml:"object" split_words:"true"`
	UseSSL    bool   `yaml:"use_ssl" split_words:"true"`
}

// QueryConfig holds the defaults applied to contract queries.
type QueryConfig struct {
	DefaultTopN      int     `yaml:"default_top_n" split_words:"true"`
	DefaultTolerance float64 `yaml:"default_tolerance" split_words:"true"`
	// MaxTopN caps top_n_service_types; zero leaves it unbounded.
	MaxTopN int `yaml:"max_top_n" split_words:"true"`
	// StrictSpendUnits rejects sheet names whose spend token carries neither M nor K.
	StrictSpendUnits *bool `yaml:"strict_spend_units" split_words:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" split_words:"true"`  // debug, info, warn, error
	Format string `yaml:"format" split_words:"true"` // json, text
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true"`
	Burst   int     `yaml:"burst" split_words:"true"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	Path    string `yaml:"path" split_words:"true"`
}

// Load reads the YAML file at path, loads a .env file sitting next to it if
// present, then applies DISCOUNTS_* environment overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Workbook.Source == "" {
		c.Workbook.Source = SourceFile
	}
	if c.Query.DefaultTopN == 0 {
		c.Query.DefaultTopN = 10
	}
	if c.Query.DefaultTolerance == 0 {
		c.Query.DefaultTolerance = 0.1
	}
	if c.Query.StrictSpendUnits == nil {
		strict := true
		c.Query.StrictSpendUnits = &strict
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks that the workbook can be located and query defaults are sane.
func (c *Config) Validate() error {
	switch c.Workbook.Source {
	case SourceFile:
		if c.Workbook.Path == "" {
			return errors.New("workbook.path is required for the file source")
		}
	case SourceMinio:
		m := c.Workbook.Minio
		if m.Endpoint == "" || m.Bucket == "" || m.Object == "" {
			return errors.New("workbook.minio endpoint, bucket and object are required for the minio source")
		}
	default:
		return fmt.Errorf("unknown workbook.source %q", c.Workbook.Source)
	}

	if c.Query.DefaultTopN < 1 {
		return fmt.Errorf("query.default_top_n must be at least 1, got %d", c.Query.DefaultTopN)
	}
	if c.Query.MaxTopN < 0 {
		return fmt.Errorf("query.max_top_n must not be negative, got %d", c.Query.MaxTopN)
	}
	if c.Query.MaxTopN > 0 && c.Query.MaxTopN < c.Query.DefaultTopN {
		return fmt.Errorf("query.max_top_n (%d) must not be below default_top_n (%d)", c.Query.MaxTopN, c.Query.DefaultTopN)
	}
	if c.Query.DefaultTolerance < 0 || c.Query.DefaultTolerance > 1 {
		return fmt.Errorf("query.default_tolerance must be within [0,1], got %g", c.Query.DefaultTolerance)
	}
	return nil
}

// StrictUnits reports whether ambiguous spend tokens are rejected.
func (q QueryConfig) StrictUnits() bool {
	return q.StrictSpendUnits == nil || *q.StrictSpendUnits
}
