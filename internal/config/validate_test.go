package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"negative max width", func(c *Config) { c.Display.MaxWidth = -1 }, "display.max_width"},
		{"negative max height", func(c *Config) { c.Display.MaxHeight = -1 }, "display.max_height"},
		{"zero radius", func(c *Config) { c.Render.MarkerRadius = 0 }, "render.marker_radius"},
		{"zero line width", func(c *Config) { c.Render.LineWidth = 0 }, "render.line_width"},
		{"opacity above one", func(c *Config) { c.Render.ExtensionOpacity = 1.5 }, "render.extension_opacity"},
		{"opacity zero hides extension", func(c *Config) { c.Render.ExtensionOpacity = 0 }, "render.extension_opacity"},
		{"opacity negative", func(c *Config) { c.Render.ExtensionOpacity = -0.1 }, "render.extension_opacity"},
		{"negative dash", func(c *Config) { c.Render.Dash = -2 }, "render.dash"},
		{"unknown scaler", func(c *Config) { c.Render.Scaler = "lanczos" }, "render.scaler"},
		{"bad color", func(c *Config) { c.Render.Colors.Chord = "yellow" }, "render.colors.chord"},
		{"missing base url", func(c *Config) { c.Analyzer.BaseURL = "" }, "analyzer.base_url is required"},
		{"relative base url", func(c *Config) { c.Analyzer.BaseURL = "/analyze" }, "not an absolute URL"},
		{"zero timeout", func(c *Config) { c.Analyzer.Timeout = 0 }, "analyzer.timeout"},
		{"bad coordinate space", func(c *Config) { c.Analyzer.CoordinateSpace = "polar" }, "analyzer.coordinate_space"},
		{"negative health interval", func(c *Config) { c.Analyzer.HealthInterval = -time.Second }, "analyzer.health_interval"},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
		{"bad exporter", func(c *Config) { c.Tracer.Enabled = true; c.Tracer.Exporter = "jaeger" }, "tracer.exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)

			err := Validate(cfg)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Error(), tt.want)
		})
	}
}

func TestValidateDisabledTracerIgnoresExporter(t *testing.T) {
	cfg := Defaults()
	cfg.Tracer.Exporter = "jaeger"
	assert.NoError(t, Validate(cfg))
}

func TestValidateAccumulates(t *testing.T) {
	cfg := Defaults()
	cfg.Render.MarkerRadius = 0
	cfg.Render.LineWidth = 0
	cfg.Analyzer.Timeout = 0

	err := Validate(cfg)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.HasErrors())
	assert.Len(t, ve.Errors, 3)
}
