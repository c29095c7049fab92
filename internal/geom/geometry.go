// Package geom builds indexed triangle meshes for the primitive shapes the avatar is
// composed from. All builders are pure: they return new buffers and never touch shared state.
package geom

import (
	"errors"

	"github.com/chewxy/math32"
)

// Shape names the primitive a geometry was generated from.
type Shape string

const (
	ShapeSphere     Shape = "sphere"
	ShapeHemisphere Shape = "hemisphere"
	ShapeCylinder   Shape = "cylinder"
	ShapeCone       Shape = "cone"
	ShapeBox        Shape = "box"
)

// ErrDegenerate is returned for non-positive or non-finite dimensions.
var ErrDegenerate = errors.New("geom: degenerate dimensions")

// Geometry is a triangle mesh with flat buffers: three floats per position and normal,
// three indices per triangle (counter-clockwise front faces).
type Geometry struct {
	Shape     Shape
	Positions []float32
	Normals   []float32
	Indices   []uint32
	released  bool
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// IsEmpty returns true if the geometry has no triangles.
func (g *Geometry) IsEmpty() bool {
	return len(g.Indices) == 0
}

// Released reports whether Release has been called.
func (g *Geometry) Released() bool {
	return g.released
}

// Release drops the CPU buffers. The geometry is unusable afterwards.
func (g *Geometry) Release() {
	g.Positions = nil
	g.Normals = nil
	g.Indices = nil
	g.released = true
}

// Clone returns a copy with its own buffers.
func (g *Geometry) Clone() *Geometry {
	return &Geometry{
		Shape:     g.Shape,
		Positions: append([]float32(nil), g.Positions...),
		Normals:   append([]float32(nil), g.Normals...),
		Indices:   append([]uint32(nil), g.Indices...),
	}
}

// Inverted returns a copy with reversed winding and flipped normals, so the inside
// faces become the front faces.
func (g *Geometry) Inverted() *Geometry {
	out := g.Clone()
	for i := 0; i+2 < len(out.Indices); i += 3 {
		out.Indices[i+1], out.Indices[i+2] = out.Indices[i+2], out.Indices[i+1]
	}
	for i := range out.Normals {
		out.Normals[i] = -out.Normals[i]
	}
	return out
}

// Bounds returns the axis-aligned min and max corners. Empty geometry returns zeros.
func (g *Geometry) Bounds() (lo, hi [3]float32) {
	if len(g.Positions) < 3 {
		return lo, hi
	}
	for k := 0; k < 3; k++ {
		lo[k], hi[k] = g.Positions[k], g.Positions[k]
	}
	for i := 3; i+2 < len(g.Positions); i += 3 {
		for k := 0; k < 3; k++ {
			lo[k] = math32.Min(lo[k], g.Positions[i+k])
			hi[k] = math32.Max(hi[k], g.Positions[i+k])
		}
	}
	return lo, hi
}

func (g *Geometry) addVertex(px, py, pz, nx, ny, nz float32) uint32 {
	idx := uint32(len(g.Positions) / 3)
	g.Positions = append(g.Positions, px, py, pz)
	g.Normals = append(g.Normals, nx, ny, nz)
	return idx
}

func (g *Geometry) addTri(a, b, c uint32) {
	g.Indices = append(g.Indices, a, b, c)
}

func validDims(dims ...float32) error {
	for _, d := range dims {
		if math32.IsNaN(d) || math32.IsInf(d, 0) || d <= 0 {
			return ErrDegenerate
		}
	}
	return nil
}
