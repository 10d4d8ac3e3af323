package render

import (
	"fmt"
	"image/color"

	"split-analyzer/internal/config"
	img "split-analyzer/internal/image"
	"split-analyzer/pkg/colorutil"
)

// FromConfig builds a Style from render settings. Unset colors keep the
// DefaultStyle values.
func FromConfig(cfg config.RenderConfig) (Style, error) {
	s := DefaultStyle()
	if cfg.MarkerRadius > 0 {
		s.MarkerRadius = cfg.MarkerRadius
	}
	if cfg.LineWidth > 0 {
		s.LineWidth = cfg.LineWidth
	}
	s.ExtensionOpacity = cfg.ExtensionOpacity
	s.Dash = cfg.Dash
	s.LabelOffset = cfg.LabelOffset

	scaler, err := img.ScalerByName(cfg.Scaler)
	if err != nil {
		return Style{}, err
	}
	s.Scaler = scaler

	colors := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"first", cfg.Colors.First, &s.FirstColor},
		{"second", cfg.Colors.Second, &s.SecondColor},
		{"chord", cfg.Colors.Chord, &s.ChordColor},
		{"extension", cfg.Colors.Extension, &s.ExtensionColor},
		{"background", cfg.Colors.Background, &s.Background},
	}
	for _, c := range colors {
		if c.hex == "" {
			continue
		}
		v, err := colorutil.ParseHex(c.hex)
		if err != nil {
			return Style{}, fmt.Errorf("%s color: %w", c.name, err)
		}
		*c.dst = v
	}
	return s, nil
}
