package export

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"avatar-studio/internal/scene"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrEmptyScene is returned when there is nothing to export.
var ErrEmptyScene = errors.New("export: empty scene")

// EncodeScene packs root into a binary glTF container: one buffer, no extensions, the
// node hierarchy with local TRS, and one mesh plus one material per leaf.
func EncodeScene(root *scene.Node) ([]byte, error) {
	doc, err := Document(root)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("export scene: %w", err)
	}
	return buf.Bytes(), nil
}

// Document converts root to an in-memory glTF document.
func Document(root *scene.Node) (*gltf.Document, error) {
	if root == nil || len(root.Leaves()) == 0 {
		return nil, ErrEmptyScene
	}
	doc := gltf.NewDocument()
	doc.Asset.Generator = "avatar-studio"
	w := &docWriter{doc: doc}
	top, err := w.node(root)
	if err != nil {
		return nil, fmt.Errorf("export scene: %w", err)
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, top)
	return doc, nil
}

type docWriter struct {
	doc *gltf.Document
}

// node appends n and its subtree, children first, and returns n's index.
func (w *docWriter) node(n *scene.Node) (int, error) {
	var children []int
	for _, c := range n.Children {
		idx, err := w.node(c)
		if err != nil {
			return 0, err
		}
		children = append(children, idx)
	}
	t := n.Transform
	q := t.Quat()
	gn := &gltf.Node{
		Name:        n.Name,
		Children:    children,
		Translation: [3]float64{float64(t.Position.X), float64(t.Position.Y), float64(t.Position.Z)},
		Rotation:    [4]float64{float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)},
		Scale:       [3]float64{float64(t.Scale.X), float64(t.Scale.Y), float64(t.Scale.Z)},
	}
	if n.IsLeaf() && n.Mesh.Geometry != nil && !n.Mesh.Geometry.IsEmpty() {
		mesh, err := w.mesh(n)
		if err != nil {
			return 0, err
		}
		gn.Mesh = gltf.Index(mesh)
	}
	w.doc.Nodes = append(w.doc.Nodes, gn)
	return len(w.doc.Nodes) - 1, nil
}

func (w *docWriter) mesh(n *scene.Node) (int, error) {
	g := n.Mesh.Geometry
	positions := make([][3]float32, 0, g.VertexCount())
	normals := make([][3]float32, 0, g.VertexCount())
	for i := 0; i+2 < len(g.Positions); i += 3 {
		positions = append(positions, [3]float32{g.Positions[i], g.Positions[i+1], g.Positions[i+2]})
	}
	for i := 0; i+2 < len(g.Normals); i += 3 {
		normals = append(normals, [3]float32{g.Normals[i], g.Normals[i+1], g.Normals[i+2]})
	}
	if len(normals) != len(positions) {
		return 0, fmt.Errorf("%s: %d normals for %d positions", n.Name, len(normals), len(positions))
	}
	attrs := gltf.Attributes{
		gltf.POSITION: modeler.WritePosition(w.doc, positions),
		gltf.NORMAL:   modeler.WriteNormal(w.doc, normals),
	}
	indices := writeIndices(w.doc, len(positions), g.Indices)
	prim := &gltf.Primitive{
		Attributes: attrs,
		Indices:    gltf.Index(indices),
		Material:   gltf.Index(w.material(n)),
	}
	w.doc.Meshes = append(w.doc.Meshes, &gltf.Mesh{Name: n.Name, Primitives: []*gltf.Primitive{prim}})
	return len(w.doc.Meshes) - 1, nil
}

// material writes the leaf's base color in linear space. Toon banding and outlines have
// no core glTF equivalent; outlines export as their flat color.
func (w *docWriter) material(n *scene.Node) int {
	m := n.Mesh.Material
	name := n.Name
	factor := [4]float64{0.72, 0.72, 0.72, 1}
	roughness := 1.0
	if m != nil {
		r, g, b := m.Color.LinearRgb()
		factor = [4]float64{r, g, b, 1}
		roughness = 1 - 0.5*m.Gloss
		if m.Name != "" {
			name = m.Name
		}
	}
	w.doc.Materials = append(w.doc.Materials, &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &factor,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(roughness),
		},
	})
	return len(w.doc.Materials) - 1
}

// writeIndices stores indices as unsigned shorts when every vertex fits below 65535, the
// value glTF reserves for primitive restart, and as unsigned ints otherwise.
func writeIndices(doc *gltf.Document, vertices int, indices []uint32) int {
	if vertices >= math.MaxUint16 {
		return modeler.WriteIndices(doc, indices)
	}
	small := make([]uint16, len(indices))
	for i, v := range indices {
		small[i] = uint16(v)
	}
	return modeler.WriteIndices(doc, small)
}
