package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"split-analyzer/internal/config"
)

func TestFromConfigDefaults(t *testing.T) {
	s, err := FromConfig(config.Defaults().Render)
	require.NoError(t, err)

	want := DefaultStyle()
	assert.Equal(t, want.MarkerRadius, s.MarkerRadius)
	assert.Equal(t, want.LineWidth, s.LineWidth)
	assert.Equal(t, want.ExtensionOpacity, s.ExtensionOpacity)
	assert.Equal(t, want.FirstColor, s.FirstColor)
	assert.Equal(t, draw.CatmullRom, s.Scaler)
}

func TestFromConfigOverrides(t *testing.T) {
	cfg := config.Defaults().Render
	cfg.MarkerRadius = 3
	cfg.Scaler = "nearest"
	cfg.Colors.First = "#00ff00"
	cfg.Colors.Extension = "#ffffff80"

	s, err := FromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 3.0, s.MarkerRadius)
	assert.Equal(t, draw.NearestNeighbor, s.Scaler)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, s.FirstColor)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 128}, s.ExtensionColor)
}

func TestFromConfigErrors(t *testing.T) {
	cfg := config.Defaults().Render
	cfg.Scaler = "lanczos"
	_, err := FromConfig(cfg)
	assert.Error(t, err)

	cfg = config.Defaults().Render
	cfg.Colors.Chord = "#zz0000"
	_, err = FromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chord color")
}
