package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/avelar/go-docx2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config holds all configuration for the conversion service.
type Config struct {
	Addr        string       `yaml:"addr"`        // listen address (default ":8080")
	WorkDir     string       `yaml:"workDir"`     // job workdir root (default os temp)
	MaxUploadMB int          `yaml:"maxUploadMB"` // upload cap in MB
	Workers     int          `yaml:"workers"`     // converter pool size (0 = auto)
	HeaderMode  string       `yaml:"headerMode"`  // "stamp" or "suppress"
	FontFamily  string       `yaml:"fontFamily"`
	FontSize    int          `yaml:"fontSize"` // points
	TimeoutSec  int          `yaml:"timeoutSeconds"`
	LogLevel    string       `yaml:"logLevel"` // debug, info, warn, error
	Hosted      HostedConfig `yaml:"hosted"`
}

// HostedConfig configures the hosted conversion API backend.
type HostedConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// Configured reports whether both endpoint and key are present.
func (h HostedConfig) Configured() bool {
	return h.Endpoint != "" && h.APIKey != ""
}

// DefaultConfig returns the service defaults.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		MaxUploadMB: 32,
		HeaderMode:  "stamp",
		FontFamily:  "Times New Roman",
		FontSize:    10,
		TimeoutSec:  120,
		LogLevel:    "info",
	}
}

// LoadConfig reads the optional YAML config file and applies environment
// overrides on top. An empty path yields defaults plus env.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- config path is operator-provided
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers environment overrides over the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv("WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("HEADER_MODE"); v != "" {
		c.HeaderMode = v
	}
	if v := os.Getenv("CONVERT_API_ENDPOINT"); v != "" {
		c.Hosted.Endpoint = v
	}
	if v := os.Getenv("CONVERT_API_KEY"); v != "" {
		c.Hosted.APIKey = v
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}
