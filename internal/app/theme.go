package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme is the desktop theme. Primary and focus colors follow the P1/P2
// marker colors so buttons read as part of the selection.
type Theme struct{}

var _ fyne.Theme = (*Theme)(nil)

func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x28, G: 0x6E, B: 0xF0, A: 0xFF} // P2 blue
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0xE6, G: 0x28, B: 0x28, A: 0x80} // P1 red
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xDC, B: 0x00, A: 0x60} // Chord yellow
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 14
	default:
		return theme.DefaultTheme().Size(name)
	}
}
