// Package toon builds cel-shaded materials and inverted-hull outlines for the scene tree.
package toon

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"

	"github.com/anthonynsimon/bild/transform"
)

// RampWidth is the resolution of the 1-D lookup texture every toon material carries.
const RampWidth = 256

// minLuminance keeps the darkest band from going black.
const minLuminance = 0.35

// ErrSteps is returned for band counts outside [1, RampWidth].
var ErrSteps = errors.New("toon: steps out of range")

// Ramp returns the RampWidth×1 grayscale lookup texture for steps bands. steps+1 evenly
// spaced stops split [0,1] into steps intervals; interval k is lit at stop k+1, so the
// ramp holds exactly steps distinct levels.
func Ramp(steps int) (image.Image, error) {
	if steps < 1 || steps > RampWidth {
		return nil, fmt.Errorf("%w: %d", ErrSteps, steps)
	}
	seed := image.NewGray(image.Rect(0, 0, steps, 1))
	for k := 0; k < steps; k++ {
		stop := float64(k+1) / float64(steps)
		lum := minLuminance + (1-minLuminance)*stop
		seed.SetGray(k, 0, color.Gray{Y: uint8(lum*255 + 0.5)})
	}
	return transform.Resize(seed, RampWidth, 1, transform.NearestNeighbor), nil
}

// CreateToonMaterial builds a quantized shading material with the given base color and
// band count. The rim parameters are stored on the material as metadata only.
func CreateToonMaterial(hex string, steps int, rimHex string, rimIntensity float64) (*scene.Material, error) {
	base, err := avatar.ParseColor(hex)
	if err != nil {
		return nil, fmt.Errorf("toon material: %w", err)
	}
	rim, err := avatar.ParseColor(rimHex)
	if err != nil {
		return nil, fmt.Errorf("toon material rim: %w", err)
	}
	ramp, err := Ramp(steps)
	if err != nil {
		return nil, fmt.Errorf("toon material: %w", err)
	}
	return &scene.Material{
		Name:         fmt.Sprintf("toon-%s-%d", base.Hex()[1:], steps),
		Color:        base,
		Steps:        steps,
		Ramp:         ramp,
		RimColor:     rim,
		RimIntensity: rimIntensity,
	}, nil
}

// Levels counts the distinct luminance values of a ramp.
func Levels(ramp image.Image) int {
	seen := make(map[uint8]struct{})
	b := ramp.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(ramp.At(x, y)).(color.Gray)
			seen[g.Y] = struct{}{}
		}
	}
	return len(seen)
}
