// Package config loads agentfiles settings from the environment.
//
// Every field has a default so an empty environment yields a working
// local-only setup writing under ./workspace/output.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Paths   PathConfig
	Storage StorageConfig
	Catalog CatalogConfig
	Logging LogConfig
	Metrics MetricsConfig
}

// PathConfig controls where files land on disk.
type PathConfig struct {
	OutputRoot    string `envconfig:"OUTPUT_ROOT_DIR" default:"workspace/output"`
	AgentTemplate string `envconfig:"AGENT_OUTPUT_DIR" default:"workspace/output/{agent_id}/{agent_execution_id}"`
}

// StorageConfig selects the remote mirror backend.
type StorageConfig struct {
	Type              string `envconfig:"STORAGE_TYPE" default:"LOCAL"`
	RemotePrefix      string `envconfig:"REMOTE_PREFIX" default:"resources"`
	S3Bucket          string `envconfig:"S3_BUCKET"`
	S3Endpoint        string `envconfig:"AWS_ENDPOINT_URL_S3"`
	S3ForcePathStyle  bool   `envconfig:"AWS_S3_FORCE_PATH_STYLE" default:"false"`
	GCSBucket         string `envconfig:"GCS_BUCKET"`
	MirrorConcurrency int    `envconfig:"MIRROR_CONCURRENCY" default:"4"`
}

// CatalogConfig holds resource catalog settings.
type CatalogConfig struct {
	// Dir is the badger directory. Empty keeps the catalog in memory.
	Dir string `envconfig:"CATALOG_DIR"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// MetricsConfig holds the Prometheus listener address. Empty disables it.
type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Paths: PathConfig{
			OutputRoot:    "workspace/output",
			AgentTemplate: "workspace/output/{agent_id}/{agent_execution_id}",
		},
		Storage: StorageConfig{
			Type:              "LOCAL",
			RemotePrefix:      "resources",
			MirrorConcurrency: 4,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch strings.ToUpper(c.Storage.Type) {
	case "LOCAL", "REMOTE":
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: want LOCAL or REMOTE", c.Storage.Type)
	}
	if c.Storage.S3Bucket != "" && c.Storage.GCSBucket != "" {
		return fmt.Errorf("S3_BUCKET and GCS_BUCKET are mutually exclusive")
	}
	if c.Storage.MirrorConcurrency < 1 {
		return fmt.Errorf("MIRROR_CONCURRENCY must be positive, got %d", c.Storage.MirrorConcurrency)
	}
	return nil
}
