package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Default tessellation.
const (
	DefaultSegments       = 16
	DefaultRadialSegments = 16
	minSegments           = 3
)

// Sphere builds a UV sphere centered at the origin.
func Sphere(radius float32, widthSegs, heightSegs int) (*Geometry, error) {
	g, err := sphereSector(radius, widthSegs, heightSegs, 0, math32.Pi)
	if err != nil {
		return nil, err
	}
	g.Shape = ShapeSphere
	return g, nil
}

// Hemisphere builds the upper half of a sphere (open at the equator), used for caps.
func Hemisphere(radius float32, widthSegs, heightSegs int) (*Geometry, error) {
	g, err := sphereSector(radius, widthSegs, heightSegs, 0, math32.Pi/2)
	if err != nil {
		return nil, err
	}
	g.Shape = ShapeHemisphere
	return g, nil
}

// sphereSector builds rows of vertices from elevation elevStart (0 = top) over elevLen
// radians, wrapping fully around Y.
func sphereSector(radius float32, widthSegs, heightSegs int, elevStart, elevLen float32) (*Geometry, error) {
	if err := validDims(radius); err != nil {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, err)
	}
	if widthSegs < minSegments || heightSegs < 2 {
		return nil, fmt.Errorf("sphere segments %dx%d: %w", widthSegs, heightSegs, ErrDegenerate)
	}
	g := &Geometry{}
	rows := make([][]uint32, 0, heightSegs+1)
	for y := 0; y <= heightSegs; y++ {
		v := float32(y) / float32(heightSegs)
		elev := elevStart + v*elevLen
		row := make([]uint32, 0, widthSegs+1)
		for x := 0; x <= widthSegs; x++ {
			u := float32(x) / float32(widthSegs)
			ang := u * 2 * math32.Pi
			nx := -math32.Cos(ang) * math32.Sin(elev)
			ny := math32.Cos(elev)
			nz := math32.Sin(ang) * math32.Sin(elev)
			row = append(row, g.addVertex(nx*radius, ny*radius, nz*radius, nx, ny, nz))
		}
		rows = append(rows, row)
	}
	elevEnd := elevStart + elevLen
	for y := 0; y < heightSegs; y++ {
		for x := 0; x < widthSegs; x++ {
			v1 := rows[y][x+1]
			v2 := rows[y][x]
			v3 := rows[y+1][x]
			v4 := rows[y+1][x+1]
			if y != 0 || elevStart > 0 {
				g.addTri(v1, v2, v4)
			}
			if y != heightSegs-1 || elevEnd < math32.Pi {
				g.addTri(v2, v3, v4)
			}
		}
	}
	return g, nil
}

// Cylinder builds a closed cylinder of the given height along Y, centered at the origin.
func Cylinder(height, radius float32, radialSegs int) (*Geometry, error) {
	g, err := frustum(height, radius, radius, radialSegs)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	g.Shape = ShapeCylinder
	return g, nil
}

// Tapered builds a cylinder with different top and bottom radii. It is still tagged
// as a cylinder; use Cone for flared silhouettes.
func Tapered(height, topRad, botRad float32, radialSegs int) (*Geometry, error) {
	g, err := frustum(height, topRad, botRad, radialSegs)
	if err != nil {
		return nil, fmt.Errorf("tapered cylinder: %w", err)
	}
	g.Shape = ShapeCylinder
	return g, nil
}

// Cone builds a (possibly truncated) cone along Y centered at the origin. topRad may be 0.
func Cone(height, topRad, botRad float32, radialSegs int) (*Geometry, error) {
	if topRad == 0 {
		topRad = -1
	}
	g, err := frustum(height, topRad, botRad, radialSegs)
	if err != nil {
		return nil, fmt.Errorf("cone: %w", err)
	}
	g.Shape = ShapeCone
	return g, nil
}

// frustum builds side walls plus caps. A negative topRad means a pointed apex.
func frustum(height, topRad, botRad float32, radialSegs int) (*Geometry, error) {
	pointed := topRad < 0
	if pointed {
		topRad = 0
		if err := validDims(height, botRad); err != nil {
			return nil, err
		}
	} else if err := validDims(height, topRad, botRad); err != nil {
		return nil, err
	}
	if radialSegs < minSegments {
		return nil, ErrDegenerate
	}
	g := &Geometry{}
	half := height / 2
	slope := (botRad - topRad) / height

	top := make([]uint32, 0, radialSegs+1)
	bot := make([]uint32, 0, radialSegs+1)
	for x := 0; x <= radialSegs; x++ {
		ang := float32(x) / float32(radialSegs) * 2 * math32.Pi
		cx, cz := -math32.Cos(ang), math32.Sin(ang)
		nl := math32.Sqrt(1 + slope*slope)
		nx, ny, nz := cx/nl, slope/nl, cz/nl
		top = append(top, g.addVertex(cx*topRad, half, cz*topRad, nx, ny, nz))
		bot = append(bot, g.addVertex(cx*botRad, -half, cz*botRad, nx, ny, nz))
	}
	for x := 0; x < radialSegs; x++ {
		if !pointed {
			g.addTri(top[x], bot[x], top[x+1])
		}
		g.addTri(bot[x], bot[x+1], top[x+1])
	}
	if !pointed {
		capDisk(g, half, topRad, radialSegs, 1)
	}
	capDisk(g, -half, botRad, radialSegs, -1)
	return g, nil
}

// capDisk adds a triangle fan at height y facing +Y (dir 1) or -Y (dir -1).
func capDisk(g *Geometry, y, radius float32, radialSegs int, dir float32) {
	center := g.addVertex(0, y, 0, 0, dir, 0)
	ring := make([]uint32, 0, radialSegs+1)
	for x := 0; x <= radialSegs; x++ {
		ang := float32(x) / float32(radialSegs) * 2 * math32.Pi
		ring = append(ring, g.addVertex(-math32.Cos(ang)*radius, y, math32.Sin(ang)*radius, 0, dir, 0))
	}
	for x := 0; x < radialSegs; x++ {
		if dir > 0 {
			g.addTri(center, ring[x], ring[x+1])
		} else {
			g.addTri(center, ring[x+1], ring[x])
		}
	}
}

// Box builds an axis-aligned box centered at the origin with per-face normals.
func Box(w, h, d float32) (*Geometry, error) {
	if err := validDims(w, h, d); err != nil {
		return nil, fmt.Errorf("box %vx%vx%v: %w", w, h, d, err)
	}
	g := &Geometry{Shape: ShapeBox}
	hx, hy, hz := w/2, h/2, d/2
	faces := []struct {
		n    [3]float32
		u, v [3]float32
	}{
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
	}
	ext := [3]float32{hx, hy, hz}
	for _, f := range faces {
		var corners [4]uint32
		for i, s := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p [3]float32
			for k := 0; k < 3; k++ {
				p[k] = (f.n[k] + f.u[k]*s[0] + f.v[k]*s[1]) * ext[k]
			}
			corners[i] = g.addVertex(p[0], p[1], p[2], f.n[0], f.n[1], f.n[2])
		}
		g.addTri(corners[0], corners[1], corners[2])
		g.addTri(corners[0], corners[2], corners[3])
	}
	return g, nil
}
