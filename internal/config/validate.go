package config

import (
	"fmt"
	"net/url"
	"strings"

	"split-analyzer/pkg/colorutil"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// listing every problem found.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateDisplay(cfg, ve)
	validateRender(cfg, ve)
	validateAnalyzer(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateDisplay(cfg *Config, ve *ValidationError) {
	if cfg.Display.MaxWidth < 0 {
		ve.Add("display.max_width must be >= 0")
	}
	if cfg.Display.MaxHeight < 0 {
		ve.Add("display.max_height must be >= 0")
	}
}

func validateRender(cfg *Config, ve *ValidationError) {
	r := cfg.Render
	if r.MarkerRadius <= 0 {
		ve.Add("render.marker_radius must be > 0")
	}
	if r.LineWidth <= 0 {
		ve.Add("render.line_width must be > 0")
	}
	if r.ExtensionOpacity <= 0 || r.ExtensionOpacity > 1 {
		ve.Add("render.extension_opacity must be > 0 and <= 1")
	}
	if r.Dash < 0 {
		ve.Add("render.dash must be >= 0")
	}
	switch r.Scaler {
	case "", "nearest", "bilinear", "catmullrom":
	default:
		ve.Add("render.scaler %q is not one of nearest, bilinear, catmullrom", r.Scaler)
	}

	colors := map[string]string{
		"first":      r.Colors.First,
		"second":     r.Colors.Second,
		"chord":      r.Colors.Chord,
		"extension":  r.Colors.Extension,
		"background": r.Colors.Background,
	}
	for name, v := range colors {
		if v == "" {
			continue
		}
		if _, err := colorutil.ParseHex(v); err != nil {
			ve.Add("render.colors.%s: %v", name, err)
		}
	}
}

func validateAnalyzer(cfg *Config, ve *ValidationError) {
	a := cfg.Analyzer
	if a.BaseURL == "" {
		ve.Add("analyzer.base_url is required")
	} else if u, err := url.Parse(a.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		ve.Add("analyzer.base_url %q is not an absolute URL", a.BaseURL)
	}
	if a.Timeout <= 0 {
		ve.Add("analyzer.timeout must be > 0")
	}
	switch a.CoordinateSpace {
	case "normalized", "pixel":
	default:
		ve.Add("analyzer.coordinate_space must be normalized or pixel, got %q", a.CoordinateSpace)
	}
	if a.HealthInterval < 0 {
		ve.Add("analyzer.health_interval must be >= 0")
	}
	if a.CircuitBreaker.Enabled && a.CircuitBreaker.Timeout < 0 {
		ve.Add("analyzer.circuit_breaker.timeout must be >= 0")
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format must be text or json, got %q", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		ve.Add("tracer.exporter must be noop or stdout, got %q", cfg.Tracer.Exporter)
	}
}
