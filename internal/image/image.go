// Package image provides image loading and display-box sizing.
package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"split-analyzer/pkg/geometry"
)

// Image is a loaded raster source. It is replaced wholesale on the next load
// and never mutated.
type Image struct {
	Name    string      // Base file name, used as the upload filename
	Path    string      // Source path when loaded from disk
	Data    []byte      // Raw encoded bytes, sent to the analysis service
	Format  string      // Decoder name: png, jpeg, gif, bmp, tiff, webp
	Decoded image.Image // Decoded pixels for display
}

// Load reads and decodes the image at path.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	img, err := Decode(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	img.Path = path
	return img, nil
}

// Decode decodes raw image bytes. The bytes are retained as-is.
func Decode(name string, data []byte) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("failed to decode image: %s has no pixels", name)
	}
	return &Image{
		Name:    name,
		Data:    data,
		Format:  format,
		Decoded: img,
	}, nil
}

// Width returns the natural image width in pixels.
func (i *Image) Width() int {
	if i == nil || i.Decoded == nil {
		return 0
	}
	return i.Decoded.Bounds().Dx()
}

// Height returns the natural image height in pixels.
func (i *Image) Height() int {
	if i == nil || i.Decoded == nil {
		return 0
	}
	return i.Decoded.Bounds().Dy()
}

// Size returns the natural image dimensions.
func (i *Image) Size() geometry.SizeInt {
	return geometry.SizeInt{Width: i.Width(), Height: i.Height()}
}

// ContentType returns the MIME type for the decoded format.
func (i *Image) ContentType() string {
	switch i.Format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// FitSize returns the size of natural scaled to fit inside box while keeping
// the aspect ratio. Images already inside the box are returned unchanged;
// they are never upscaled. A zero box dimension leaves that axis unbounded.
func FitSize(natural, box geometry.SizeInt) geometry.SizeInt {
	if natural.Width <= 0 || natural.Height <= 0 {
		return geometry.SizeInt{}
	}

	scale := 1.0
	if box.Width > 0 && natural.Width > box.Width {
		scale = float64(box.Width) / float64(natural.Width)
	}
	if box.Height > 0 && natural.Height > box.Height {
		scale = math.Min(scale, float64(box.Height)/float64(natural.Height))
	}
	if scale == 1 {
		return natural
	}

	w := int(math.Round(float64(natural.Width) * scale))
	h := int(math.Round(float64(natural.Height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return geometry.SizeInt{Width: w, Height: h}
}

// Resample draws src scaled to exactly fill a new RGBA of the given size.
func Resample(src image.Image, size geometry.SizeInt, scaler draw.Scaler) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	if src == nil {
		return dst
	}
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// ScalerByName maps a config name to an x/image scaler.
func ScalerByName(name string) (draw.Scaler, error) {
	switch name {
	case "", "bilinear":
		return draw.ApproxBiLinear, nil
	case "nearest":
		return draw.NearestNeighbor, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	default:
		return nil, fmt.Errorf("unknown scaler %q", name)
	}
}
