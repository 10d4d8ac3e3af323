// Package config loads application settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Render   RenderConfig   `yaml:"render"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Logger   LoggerConfig   `yaml:"logger"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// DisplayConfig bounds the canvas backing store. Larger images are scaled
// down to fit; smaller images keep their natural size.
type DisplayConfig struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// RenderConfig holds overlay drawing settings.
type RenderConfig struct {
	MarkerRadius     float64      `yaml:"marker_radius"`
	LineWidth        float64      `yaml:"line_width"`
	ExtensionOpacity float64      `yaml:"extension_opacity"`
	LabelOffset      float64      `yaml:"label_offset"`
	Dash             float64      `yaml:"dash"`
	Scaler           string       `yaml:"scaler"` // nearest, bilinear, catmullrom
	Colors           ColorsConfig `yaml:"colors"`
}

// ColorsConfig holds overlay colors as #rrggbb or #rrggbbaa. Empty keeps the default.
type ColorsConfig struct {
	First      string `yaml:"first"`
	Second     string `yaml:"second"`
	Chord      string `yaml:"chord"`
	Extension  string `yaml:"extension"`
	Background string `yaml:"background"`
}

// AnalyzerConfig describes the split analysis service.
type AnalyzerConfig struct {
	BaseURL         string               `yaml:"base_url"`
	Timeout         time.Duration        `yaml:"timeout"`
	CoordinateSpace string               `yaml:"coordinate_space"` // normalized or pixel
	HealthInterval  time.Duration        `yaml:"health_interval"`  // 0 disables polling
	CircuitBreaker  CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig holds circuit breaker settings for the analysis client.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stdout, stderr or a file path
}

// TracerConfig holds OpenTelemetry settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // noop or stdout
}

// Defaults returns a Config with default values.
func Defaults() *Config {
	return &Config{
		Display: DisplayConfig{
			MaxWidth:  600,
			MaxHeight: 400,
		},
		Render: RenderConfig{
			MarkerRadius:     6,
			LineWidth:        2,
			ExtensionOpacity: 0.4,
			LabelOffset:      10,
			Dash:             8,
			Scaler:           "catmullrom",
		},
		Analyzer: AnalyzerConfig{
			BaseURL:         "http://localhost:8000",
			Timeout:         60 * time.Second,
			CoordinateSpace: "normalized",
			HealthInterval:  15 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides. A missing file
// yields the defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps SPLITANALYZER_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPLITANALYZER_ANALYZER_BASE_URL"); v != "" {
		cfg.Analyzer.BaseURL = v
	}
	if v := os.Getenv("SPLITANALYZER_ANALYZER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Analyzer.Timeout = d
		}
	}
	if v := os.Getenv("SPLITANALYZER_ANALYZER_COORDINATE_SPACE"); v != "" {
		cfg.Analyzer.CoordinateSpace = v
	}
	if v := os.Getenv("SPLITANALYZER_CIRCUIT_BREAKER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Analyzer.CircuitBreaker.Enabled = b
		}
	}
	if v := os.Getenv("SPLITANALYZER_DISPLAY_MAX_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Display.MaxWidth = n
		}
	}
	if v := os.Getenv("SPLITANALYZER_DISPLAY_MAX_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Display.MaxHeight = n
		}
	}
	if v := os.Getenv("SPLITANALYZER_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("SPLITANALYZER_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("SPLITANALYZER_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("SPLITANALYZER_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}
