// Package config layers outbook settings: built-in defaults, then the yaml
// config file, then OUTBOOK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName is the application name used for the config directory.
const AppName = "outbook"

// Config holds CLI and server configuration.
type Config struct {
	OutputDir    string `yaml:"output_dir,omitempty"`
	OutputFormat string `yaml:"output_format,omitempty"` // text, json, ndjson, table, yaml

	// HTTP server
	Port           string `yaml:"port,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes,omitempty"`

	// Summaries
	OpenAIAPIKey  string `yaml:"openai_api_key,omitempty"`
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty"`
	OpenAIModel   string `yaml:"openai_model,omitempty"`
	ChunkSize     int    `yaml:"chunk_size,omitempty"`
	ChunkOverlap  int    `yaml:"chunk_overlap,omitempty"`

	// Link checking
	LinkWorkers int           `yaml:"link_workers,omitempty"`
	LinkTimeout time.Duration `yaml:"link_timeout,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:      "book",
		OutputFormat:   "text",
		Port:           "8090",
		MaxUploadBytes: 10485760, // 10MB
		OpenAIModel:    "gpt-4o-mini",
		ChunkSize:      1500,
		ChunkOverlap:   200,
		LinkWorkers:    8,
		LinkTimeout:    10 * time.Second,
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the effective configuration from defaults, the yaml file at
// path (missing file is not an error), and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.OutputDir = envOr("OUTBOOK_OUTPUT_DIR", c.OutputDir)
	c.OutputFormat = envOr("OUTBOOK_OUTPUT_FORMAT", c.OutputFormat)
	c.Port = envOr("OUTBOOK_PORT", c.Port)
	c.APIKey = envOr("OUTBOOK_API_KEY", c.APIKey)
	c.MaxUploadBytes = envInt64("OUTBOOK_MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.OpenAIAPIKey = envOr("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = envOr("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.OpenAIModel = envOr("OUTBOOK_OPENAI_MODEL", c.OpenAIModel)
	c.ChunkSize = envInt("OUTBOOK_CHUNK_SIZE", c.ChunkSize)
	c.ChunkOverlap = envInt("OUTBOOK_CHUNK_OVERLAP", c.ChunkOverlap)
	c.LinkWorkers = envInt("OUTBOOK_LINK_WORKERS", c.LinkWorkers)
	c.LinkTimeout = envDuration("OUTBOOK_LINK_TIMEOUT", c.LinkTimeout)
}

// Validate rejects settings no command could run with.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be smaller than chunk_size")
	}
	if c.LinkWorkers <= 0 {
		return fmt.Errorf("link_workers must be positive")
	}
	return nil
}

// Save writes the config as yaml to the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
