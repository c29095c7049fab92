// Package thumbnail turns captured viewer frames into small square PNG previews that sit
// next to exported artifacts.
package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// DefaultSize is the edge length of a thumbnail in pixels.
const DefaultSize = 256

// ErrEmptyImage is returned for nil or zero-area input.
var ErrEmptyImage = errors.New("empty image")

// Make crops the centered square of img and resamples it to size x size.
func Make(img image.Image, size int) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if size <= 0 {
		size = DefaultSize
	}
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	square := transform.Crop(img, image.Rect(x0, y0, x0+side, y0+side))
	return transform.Resize(square, size, size, transform.Linear), nil
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := imgio.PNGEncoder()(w, img); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

// Save makes a thumbnail of img and writes it to path as PNG.
func Save(path string, img image.Image, size int) error {
	thumb, err := Make(img, size)
	if err != nil {
		return fmt.Errorf("thumbnail: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := imgio.Save(path, thumb, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save thumbnail: %w", err)
	}
	return nil
}
