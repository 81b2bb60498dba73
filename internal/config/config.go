// Package config loads voc-mcp settings from a YAML file, an optional .env
// file and VOC_MCP_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/voc-tools-mcp/internal/voc"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "VOC_MCP_LOG_LEVEL"
	EnvLogFormat = "VOC_MCP_LOG_FORMAT"
	EnvDatabase  = "VOC_MCP_DATABASE"
	EnvVerified  = "VOC_MCP_VERIFIED"
)

// Config holds all voc-mcp configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Annotation AnnotationConfig `yaml:"annotation"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// AnnotationConfig holds defaults for documents created from images.
type AnnotationConfig struct {
	Database string `yaml:"database"`
	Verified bool   `yaml:"verified"`
}

// PreviewConfig controls how annotations are drawn over images.
type PreviewConfig struct {
	// Desaturate is passed to the saturation filter before overlays are drawn.
	// -1 gives grayscale, 0 leaves the image untouched.
	Desaturate float64 `yaml:"desaturate"`
	LineWidth  int     `yaml:"line_width"`
	Saturation float64 `yaml:"saturation"` // label color saturation, 0..1
	Value      float64 `yaml:"value"`      // label color brightness, 0..1
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Annotation: AnnotationConfig{
			Database: voc.DefaultDatabase,
		},
		Preview: PreviewConfig{
			Desaturate: -0.5,
			LineWidth:  2,
			Saturation: 0.75,
			Value:      0.95,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process
// environment. Variables already set are not overwritten. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Annotation.Database = v
	}
	if v := os.Getenv(EnvVerified); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvVerified, v, err)
		}
		c.Annotation.Verified = verified
	}
	return nil
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted logging formats.
var ValidLogFormats = []string{"json", "console"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if !contains(ValidLogFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidLogFormats)
	}
	if c.Preview.Desaturate < -1 || c.Preview.Desaturate > 0 {
		return fmt.Errorf("preview desaturate must be within [-1, 0], got %g", c.Preview.Desaturate)
	}
	if c.Preview.LineWidth < 1 {
		return fmt.Errorf("preview line width must be positive, got %d", c.Preview.LineWidth)
	}
	if c.Preview.Saturation < 0 || c.Preview.Saturation > 1 {
		return fmt.Errorf("preview saturation must be within [0, 1], got %g", c.Preview.Saturation)
	}
	if c.Preview.Value < 0 || c.Preview.Value > 1 {
		return fmt.Errorf("preview value must be within [0, 1], got %g", c.Preview.Value)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
