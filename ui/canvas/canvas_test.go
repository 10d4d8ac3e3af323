package canvas

import (
	goimage "image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"split-analyzer/internal/app"
	"split-analyzer/internal/image"
	"split-analyzer/internal/logger"
	"split-analyzer/pkg/geometry"
)

func loadedSession(t *testing.T, w, h int) *app.Session {
	t.Helper()
	s := app.NewSession(nil, nil, geometry.SizeInt{}, logger.Discard())
	require.NoError(t, s.LoadImage(&image.Image{
		Name:    "test.png",
		Data:    []byte("png"),
		Format:  "png",
		Decoded: goimage.NewRGBA(goimage.Rect(0, 0, w, h)),
	}))
	return s
}

func TestTapAddsNormalizedPoint(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := app.NewSession(nil, nil, geometry.SizeInt{}, logger.Discard())
	c := New(s, logger.Discard())
	require.NoError(t, s.LoadImage(&image.Image{
		Name: "big.png", Data: []byte("x"), Format: "png",
		Decoded: goimage.NewRGBA(goimage.Rect(0, 0, 1200, 800)),
	}))

	assert.Equal(t, fyne.NewSize(600, 400), c.MinSize())
	c.Resize(fyne.NewSize(600, 400))

	test.TapAt(c, fyne.NewPos(150, 100))

	points := s.Snapshot().Points
	require.Len(t, points, 1)
	assert.InDelta(t, 0.25, points[0].X, 1e-6)
	assert.InDelta(t, 0.25, points[0].Y, 1e-6)
}

func TestTapOnStretchedCanvas(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := loadedSession(t, 600, 400)
	c := New(s, logger.Discard())
	c.Resize(fyne.NewSize(1200, 400))

	test.TapAt(c, fyne.NewPos(600, 200))

	points := s.Snapshot().Points
	require.Len(t, points, 1)
	assert.InDelta(t, 0.5, points[0].X, 1e-6)
	assert.InDelta(t, 0.5, points[0].Y, 1e-6)
}

func TestTapOutsideIgnored(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := loadedSession(t, 100, 100)
	c := New(s, logger.Discard())
	c.Resize(fyne.NewSize(100, 100))

	test.TapAt(c, fyne.NewPos(150, 50))
	assert.Empty(t, s.Snapshot().Points)
}

func TestTapWithoutImageIgnored(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := app.NewSession(nil, nil, geometry.SizeInt{}, logger.Discard())
	c := New(s, logger.Discard())
	c.Resize(fyne.NewSize(600, 400))

	test.TapAt(c, fyne.NewPos(10, 10))
	assert.Empty(t, s.Snapshot().Points)
}

func TestDrawReturnsBackingStore(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := app.NewSession(nil, nil, geometry.SizeInt{}, logger.Discard())
	c := New(s, logger.Discard())
	assert.Equal(t, goimage.Rect(0, 0, 1, 1), c.draw(10, 10).Bounds())

	require.NoError(t, s.LoadImage(&image.Image{
		Name: "a.png", Data: []byte("x"), Format: "png",
		Decoded: goimage.NewRGBA(goimage.Rect(0, 0, 300, 150)),
	}))
	assert.Equal(t, goimage.Rect(0, 0, 300, 150), c.draw(900, 450).Bounds())
}
