package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereCounts(t *testing.T) {
	g, err := Sphere(1, 8, 6)
	require.NoError(t, err)
	assert.Equal(t, ShapeSphere, g.Shape)
	assert.Equal(t, 9*7, g.VertexCount())
	// poles collapse one triangle per quad
	assert.Equal(t, 8*6*2-2*8, g.TriangleCount())
	assert.Len(t, g.Normals, len(g.Positions))

	lo, hi := g.Bounds()
	assert.InDelta(t, -1, lo[1], 1e-5)
	assert.InDelta(t, 1, hi[1], 1e-5)
}

func TestHemisphereIsUpperHalf(t *testing.T) {
	g, err := Hemisphere(2, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, ShapeHemisphere, g.Shape)
	lo, hi := g.Bounds()
	assert.InDelta(t, 0, lo[1], 1e-5)
	assert.InDelta(t, 2, hi[1], 1e-5)
}

func TestCylinderAndConeShapes(t *testing.T) {
	cyl, err := Cylinder(2, 0.5, 12)
	require.NoError(t, err)
	assert.Equal(t, ShapeCylinder, cyl.Shape)
	assert.Equal(t, 2*13+2*14, cyl.VertexCount())
	lo, hi := cyl.Bounds()
	assert.InDelta(t, -1, lo[1], 1e-5)
	assert.InDelta(t, 1, hi[1], 1e-5)

	cone, err := Cone(1, 0, 0.5, 12)
	require.NoError(t, err)
	assert.Equal(t, ShapeCone, cone.Shape)
	assert.Equal(t, 2*13+14, cone.VertexCount())

	skirt, err := Cone(0.3, 0.2, 0.4, 12)
	require.NoError(t, err)
	assert.Equal(t, ShapeCone, skirt.Shape)

	tap, err := Tapered(1, 0.2, 0.4, 12)
	require.NoError(t, err)
	assert.Equal(t, ShapeCylinder, tap.Shape)
}

func TestBox(t *testing.T) {
	g, err := Box(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 24, g.VertexCount())
	assert.Equal(t, 12, g.TriangleCount())
	lo, hi := g.Bounds()
	assert.Equal(t, [3]float32{-0.5, -1, -1.5}, lo)
	assert.Equal(t, [3]float32{0.5, 1, 1.5}, hi)
}

func TestBoxFacesPointOutward(t *testing.T) {
	g, err := Box(1, 1, 1)
	require.NoError(t, err)
	for i := 0; i < len(g.Indices); i += 3 {
		n := faceNormal(g, i)
		// centroid direction matches face normal for a centered box
		c := centroid(g, i)
		assert.Greater(t, n[0]*c[0]+n[1]*c[1]+n[2]*c[2], float32(0), "triangle %d", i/3)
	}
}

func TestDegenerateDimensions(t *testing.T) {
	_, err := Sphere(0, 8, 8)
	assert.ErrorIs(t, err, ErrDegenerate)
	_, err = Sphere(1, 2, 8)
	assert.ErrorIs(t, err, ErrDegenerate)
	_, err = Cylinder(-1, 1, 8)
	assert.ErrorIs(t, err, ErrDegenerate)
	_, err = Cone(1, 0, math32.NaN(), 8)
	assert.ErrorIs(t, err, ErrDegenerate)
	_, err = Box(1, math32.Inf(1), 1)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestInvertedFlipsWindingAndNormals(t *testing.T) {
	g, err := Box(1, 1, 1)
	require.NoError(t, err)
	inv := g.Inverted()

	require.Equal(t, g.VertexCount(), inv.VertexCount())
	for i := 0; i < len(g.Indices); i += 3 {
		a, b := faceNormal(g, i), faceNormal(inv, i)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, -a[k], b[k], 1e-6)
		}
	}
	for i := range g.Normals {
		assert.Equal(t, -g.Normals[i], inv.Normals[i])
	}
	// source is untouched
	assert.Equal(t, float32(1), g.Normals[0])
}

func TestCloneAndRelease(t *testing.T) {
	g, err := Sphere(1, 4, 4)
	require.NoError(t, err)
	c := g.Clone()
	c.Positions[0] = 99
	assert.NotEqual(t, float32(99), g.Positions[0])

	g.Release()
	assert.True(t, g.Released())
	assert.True(t, g.IsEmpty())
	assert.False(t, c.Released())
}

func faceNormal(g *Geometry, i int) [3]float32 {
	p := func(idx uint32) [3]float32 {
		return [3]float32{g.Positions[idx*3], g.Positions[idx*3+1], g.Positions[idx*3+2]}
	}
	a, b, c := p(g.Indices[i]), p(g.Indices[i+1]), p(g.Indices[i+2])
	u := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	return [3]float32{u[1]*v[2] - u[2]*v[1], u[2]*v[0] - u[0]*v[2], u[0]*v[1] - u[1]*v[0]}
}

func centroid(g *Geometry, i int) [3]float32 {
	var c [3]float32
	for j := 0; j < 3; j++ {
		idx := g.Indices[i+j]
		for k := 0; k < 3; k++ {
			c[k] += g.Positions[idx*3+uint32(k)] / 3
		}
	}
	return c
}
