package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	img "split-analyzer/internal/image"
	"split-analyzer/pkg/geometry"
)

func testImage() *img.Image {
	return &img.Image{Name: "photo.png", Data: []byte{0x89, 'P', 'N', 'G'}, Format: "png"}
}

func TestBuild(t *testing.T) {
	two := []geometry.Point2D{{X: 0.25, Y: 0.25}, {X: 0.75, Y: 0.5}}

	tests := []struct {
		name     string
		image    *img.Image
		points   []geometry.Point2D
		question string
		wantErr  error
	}{
		{"no image", nil, two, "q", ErrNoImage},
		{"image without bytes", &img.Image{Name: "x"}, two, "q", ErrNoImage},
		{"no points", testImage(), nil, "q", ErrIncompleteSelection},
		{"one point", testImage(), two[:1], "q", ErrIncompleteSelection},
		{"three points", testImage(), append(two, geometry.Point2D{}), "q", ErrIncompleteSelection},
		{"empty question", testImage(), two, "", ErrEmptyQuestion},
		{"blank question", testImage(), two, " \t\n", ErrEmptyQuestion},
		{"incomplete wins over empty question", testImage(), two[:1], "", ErrIncompleteSelection},
		{"ok", testImage(), two, "Which half has the cat?", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Build(tt.image, tt.points, tt.question)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, req)
				return
			}
			require.NoError(t, err)
			p1, p2 := req.Points()
			assert.Equal(t, two[0], p1)
			assert.Equal(t, two[1], p2)
			assert.Equal(t, tt.question, req.Question())
			assert.Equal(t, tt.image, req.Image())
		})
	}
}

func TestBuildKeepsQuestionUntouched(t *testing.T) {
	q := "  padded?  "
	req, err := Build(testImage(), []geometry.Point2D{{}, {X: 1, Y: 1}}, q)
	require.NoError(t, err)
	assert.Equal(t, q, req.Question())
}

func TestBuildDegeneratePoints(t *testing.T) {
	p := geometry.Point2D{X: 0.5, Y: 0.5}
	req, err := Build(testImage(), []geometry.Point2D{p, p}, "same spot")
	require.NoError(t, err)
	p1, p2 := req.Points()
	assert.Equal(t, p1, p2)
}

func TestPixelPoints(t *testing.T) {
	req, err := Build(testImage(), []geometry.Point2D{{X: 0.25, Y: 0.25}, {X: 0.5, Y: 1}}, "q")
	require.NoError(t, err)

	p1, p2 := req.PixelPoints(geometry.SizeInt{Width: 1200, Height: 800})
	assert.Equal(t, geometry.PointInt{X: 300, Y: 200}, p1)
	assert.Equal(t, geometry.PointInt{X: 600, Y: 800}, p2)
}
