// Package analysis builds split requests and sends them to the analysis
// service that cuts the image along the line and answers the question.
package analysis

import (
	"errors"
	"strings"

	img "split-analyzer/internal/image"
	"split-analyzer/internal/selection"
	"split-analyzer/pkg/geometry"
)

var (
	// ErrNoImage is returned when no image has been loaded.
	ErrNoImage = errors.New("no image loaded")
	// ErrIncompleteSelection is returned unless exactly two points are selected.
	ErrIncompleteSelection = errors.New("select exactly two points")
	// ErrEmptyQuestion is returned when the question is blank.
	ErrEmptyQuestion = errors.New("question is empty")
)

// SplitRequest is a validated request. It can only be created with Build.
type SplitRequest struct {
	image    *img.Image
	p1, p2   geometry.Point2D
	question string
}

// Build validates the inputs and returns a request carrying the two
// normalized points, the image bytes and the question as typed.
// Checks run in order: image, selection, question.
func Build(image *img.Image, points []geometry.Point2D, question string) (*SplitRequest, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, ErrNoImage
	}
	if len(points) != selection.Capacity {
		return nil, ErrIncompleteSelection
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	return &SplitRequest{
		image:    image,
		p1:       points[0],
		p2:       points[1],
		question: question,
	}, nil
}

// Image returns the source image.
func (r *SplitRequest) Image() *img.Image { return r.image }

// Points returns P1 and P2, normalized.
func (r *SplitRequest) Points() (p1, p2 geometry.Point2D) { return r.p1, r.p2 }

// Question returns the question unmodified.
func (r *SplitRequest) Question() string { return r.question }

// PixelPoints converts P1 and P2 to integer pixels on an image of the given size.
func (r *SplitRequest) PixelPoints(size geometry.SizeInt) (p1, p2 geometry.PointInt) {
	s := size.ToFloat()
	return r.p1.ToPixel(s).Round(), r.p2.ToPixel(s).Round()
}
