package toon

import (
	"errors"
	"fmt"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"

	"github.com/goki/mat32"
)

// Outline defaults used by the viewer.
const (
	DefaultWidth = 0.03
	DefaultColor = "#1a1a1a"
)

// ErrNotMesh is returned when an outline is requested for a group.
var ErrNotMesh = errors.New("toon: node has no mesh")

// CreateOutlineMesh returns the inverted hull of src: its geometry cloned with winding
// and normals reversed, a flat unlit back-side material, the transform of src scaled by
// 1+width, and a render order ahead of src.
func CreateOutlineMesh(src *scene.Node, width float32, hex string) (*scene.Node, error) {
	if src == nil || !src.IsLeaf() || src.Mesh.Geometry == nil {
		return nil, ErrNotMesh
	}
	col, err := avatar.ParseColor(hex)
	if err != nil {
		return nil, fmt.Errorf("outline %s: %w", src.Name, err)
	}
	hull := scene.NewMesh(src.Name+"-outline", src.Mesh.Geometry.Inverted(),
		scene.Tag{Role: scene.RoleOutline, Part: src.Tag.Part})
	hull.Mesh.Material = &scene.Material{
		Name:  "outline-" + col.Hex()[1:],
		Color: col,
		Steps: 1,
		Unlit: true,
		Side:  scene.BackSide,
	}
	hull.Transform = inflate(src.Transform, width)
	hull.RenderOrder = src.RenderOrder - 1
	return hull, nil
}

// BuildOutline returns an "outline" group with one hull for every leaf under root that is
// not a body part. Hulls are flattened: each carries its source's transform relative to
// root, so the group can sit directly under root.
func BuildOutline(root *scene.Node, width float32, hex string) (*scene.Node, error) {
	group := scene.NewGroup("outline")
	var firstErr error
	root.WalkWorld(func(n *scene.Node, m *mat32.Mat4) {
		if firstErr != nil || !n.IsLeaf() {
			return
		}
		if n.Tag.Role == scene.RoleBody || n.Tag.Role == scene.RoleOutline {
			return
		}
		hull, err := CreateOutlineMesh(n, width, hex)
		if err != nil {
			firstErr = err
			return
		}
		hull.Transform = inflate(scene.FromMatrix(m), width)
		group.Add(hull)
	})
	if firstErr != nil {
		group.Dispose()
		return nil, firstErr
	}
	return group, nil
}

func inflate(t scene.Transform, width float32) scene.Transform {
	t.Scale = t.Scale.MulScalar(1 + width)
	return t
}
