// Package render draws the loaded image with the selected points, the chord
// between them and its full-canvas extension.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"split-analyzer/pkg/colorutil"
	"split-analyzer/pkg/geometry"
)

// Style controls marker and line appearance. Sizes are in backing-store pixels.
type Style struct {
	MarkerRadius     float64
	LineWidth        float64
	ExtensionOpacity float64 // 0..1, applied to ExtensionColor
	Dash             float64 // Extension dash length; 0 draws it solid
	LabelOffset      float64 // Label distance from the marker centre

	Background     color.RGBA
	FirstColor     color.RGBA
	SecondColor    color.RGBA
	ChordColor     color.RGBA
	ExtensionColor color.RGBA

	Scaler draw.Scaler // Image scaler, nil = ApproxBiLinear
}

// DefaultStyle returns the standard overlay style.
func DefaultStyle() Style {
	return Style{
		MarkerRadius:     6,
		LineWidth:        2,
		ExtensionOpacity: 0.4,
		Dash:             8,
		LabelOffset:      10,
		Background:       colorutil.Black,
		FirstColor:       colorutil.Red,
		SecondColor:      colorutil.Blue,
		ChordColor:       colorutil.Yellow,
		ExtensionColor:   colorutil.Yellow,
		Scaler:           draw.ApproxBiLinear,
	}
}

// Marker is a drawn point marker.
type Marker struct {
	Label  string
	Center geometry.Point2D // Pixels
}

// Frame records what a Render call drew, in backing-store pixels.
type Frame struct {
	Size         geometry.Size
	Markers      []Marker
	HasChord     bool
	Chord        geometry.Segment
	HasExtension bool
	Extension    geometry.Segment
}

// Renderer draws selection overlays. It holds no per-frame state.
type Renderer struct {
	style Style
	face  font.Face
}

// New creates a renderer with the given style.
func New(style Style) *Renderer {
	if style.Scaler == nil {
		style.Scaler = draw.ApproxBiLinear
	}
	return &Renderer{style: style, face: basicfont.Face7x13}
}

// Style returns the renderer's style.
func (r *Renderer) Style() Style {
	return r.style
}

// Render fully redraws dst: clear, image scaled to fill dst, point markers,
// then chord and extension when two points are given. points are normalized
// and converted with dst's size. dst must have its origin at (0,0).
func (r *Renderer) Render(dst *image.RGBA, src image.Image, points []geometry.Point2D) Frame {
	b := dst.Bounds()
	frame := Frame{Size: geometry.NewSize(float64(b.Dx()), float64(b.Dy()))}
	if frame.Size.IsZero() {
		return frame
	}

	dc := gg.NewContextForRGBA(dst)

	// 1. Clear
	dc.SetColor(r.style.Background)
	dc.Clear()

	// 2. Image
	if src != nil {
		r.style.Scaler.Scale(dst, b, src, src.Bounds(), draw.Over, nil)
	}

	pixels := make([]geometry.Point2D, len(points))
	for i, p := range points {
		pixels[i] = p.ToPixel(frame.Size)
	}

	// 3. Markers
	for i, p := range pixels {
		m := Marker{Label: fmt.Sprintf("P%d", i+1), Center: p}
		r.drawMarker(dc, m, r.markerColor(i))
		frame.Markers = append(frame.Markers, m)
	}

	// 4. Chord and extension
	if len(pixels) == 2 {
		p1, p2 := pixels[0], pixels[1]

		frame.HasChord = true
		frame.Chord = geometry.Segment{A: p1, B: p2}
		dc.SetColor(r.style.ChordColor)
		dc.SetLineWidth(r.style.LineWidth)
		dc.SetLineCap(gg.LineCapRound)
		dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
		dc.Stroke()

		if ext, ok := Extension(p1, p2, frame.Size); ok {
			frame.HasExtension = true
			frame.Extension = ext
			r.drawExtension(dc, ext)
		}
	}

	return frame
}

func (r *Renderer) markerColor(i int) color.RGBA {
	if i == 0 {
		return r.style.FirstColor
	}
	return r.style.SecondColor
}

func (r *Renderer) drawMarker(dc *gg.Context, m Marker, col color.RGBA) {
	dc.SetColor(col)
	dc.DrawCircle(m.Center.X, m.Center.Y, r.style.MarkerRadius)
	dc.Fill()

	// Label up and to the right so it does not cover the marker
	dc.SetFontFace(r.face)
	x := m.Center.X + r.style.LabelOffset
	y := m.Center.Y - r.style.LabelOffset
	dc.SetColor(colorutil.Black)
	dc.DrawString(m.Label, x+1, y+1)
	dc.SetColor(col)
	dc.DrawString(m.Label, x, y)
}

func (r *Renderer) drawExtension(dc *gg.Context, ext geometry.Segment) {
	dc.Push()
	defer dc.Pop()

	dc.SetColor(colorutil.WithAlpha(r.style.ExtensionColor, r.style.ExtensionOpacity))
	dc.SetLineWidth(r.style.LineWidth)
	if r.style.Dash > 0 {
		dc.SetDash(r.style.Dash, r.style.Dash)
	}
	dc.DrawLine(ext.A.X, ext.A.Y, ext.B.X, ext.B.Y)
	dc.Stroke()
}
