// Package config loads server configuration from a YAML file with
// sensible defaults for every field, so the server runs with no config
// file at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ServerConfig configures the MCP HTTP endpoint
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ArchiveConfig configures the document archive
type ArchiveConfig struct {
	DocumentsDir  string `yaml:"documents_dir"`
	SummaryLength int    `yaml:"summary_length"`
	Watch         bool   `yaml:"watch"`
}

// EmbeddingConfig configures the embedding provider
type EmbeddingConfig struct {
	Enabled   bool `yaml:"enabled"`
	Dimension int  `yaml:"dimension"`
}

// LoggingConfig configures structured logging
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// TracingConfig configures OpenTelemetry export
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Exporter   string  `yaml:"exporter"`
	Endpoint   string  `yaml:"endpoint"`
	Insecure   bool    `yaml:"insecure"`
	SampleRate float64 `yaml:"sample_rate"`
}

// Default returns the configuration used when no file is supplied
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "aetherius-archive",
			Version: "0.1.0",
			Host:    "localhost",
			Port:    8765,
		},
		Archive: ArchiveConfig{
			DocumentsDir:  "documents",
			SummaryLength: 200,
			Watch:         true,
		},
		Embedding: EmbeddingConfig{
			Enabled:   true,
			Dimension: 384,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Exporter:   "noop",
			SampleRate: 1.0,
		},
	}
}

// Load reads configuration from path, applying defaults for anything
// the file leaves unset. An empty path returns defaults; a path that
// does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		applyEnv(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, cfg.validate()
}

// applyEnv overlays the handful of settings operators most often set
// through the environment
func applyEnv(cfg *Config) {
	if host := os.Getenv("AETHERIUS_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("AETHERIUS_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = n
		}
	}
	if dir := os.Getenv("AETHERIUS_DOCUMENTS_DIR"); dir != "" {
		cfg.Archive.DocumentsDir = dir
	}
	if level := os.Getenv("AETHERIUS_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Archive.SummaryLength <= 0 {
		return fmt.Errorf("summary_length must be positive, got %d", c.Archive.SummaryLength)
	}
	if c.Embedding.Enabled && c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	return nil
}
