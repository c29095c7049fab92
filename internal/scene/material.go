package scene

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Side selects which faces a material draws.
type Side int

const (
	FrontSide Side = iota
	BackSide
)

// Material describes how a mesh is shaded. Toon materials carry a ramp texture that
// quantizes lighting into Steps bands; outline materials are Unlit and BackSide.
// RimColor and RimIntensity are metadata only: no render pass reads them yet.
type Material struct {
	Name         string
	Color        colorful.Color
	Steps        int
	Ramp         image.Image
	RimColor     colorful.Color
	RimIntensity float64
	Gloss        float64
	Unlit        bool
	Side         Side
	GPU          Resource
	disposed     bool
}

// Clone copies the material parameters. The ramp image is shared (it is never mutated);
// GPU handles are not copied.
func (m *Material) Clone() *Material {
	out := *m
	out.GPU = nil
	out.disposed = false
	return &out
}

// Disposed reports whether Dispose has been called.
func (m *Material) Disposed() bool {
	return m.disposed
}

// Dispose releases the GPU handle and drops the ramp.
func (m *Material) Dispose() {
	if m.GPU != nil {
		m.GPU.Release()
		m.GPU = nil
	}
	m.Ramp = nil
	m.disposed = true
}
