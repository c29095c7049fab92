// Package render is the raylib backend: it uploads character meshes and ramp textures to the
// GPU, draws them with the toon and unlit shaders, and owns the stage camera and grid.
// Everything here must run on the window's thread after the GL context exists.
package render

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/goki/mat32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

var (
	// ErrNoGeometry is returned when a leaf has nothing left to upload.
	ErrNoGeometry = errors.New("render: leaf has no geometry")
	// ErrShader is returned when the toon or unlit shader fails to compile.
	ErrShader = errors.New("render: shader unavailable")
	// ErrUpload is returned when the driver did not hand back a vertex array.
	ErrUpload = errors.New("render: mesh upload failed")
)

// Backend uploads and draws scene nodes. Shaders are created on first Upload so that GPU
// resources are allocated after the window exists.
type Backend struct {
	toon     rl.Material
	unlit    rl.Material
	ready    bool
	lightDir [3]float32
	live     int
	log      *zap.Logger
}

// NewBackend returns a backend with the default key light.
func NewBackend(log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{lightDir: defaultLightDir, log: log}
}

// SetLight sets the direction toward the key light for subsequent draws.
func (b *Backend) SetLight(dir [3]float32) {
	b.lightDir = dir
}

// Live returns the number of meshes currently resident on the GPU.
func (b *Backend) Live() int {
	return b.live
}

func (b *Backend) ensure() error {
	if b.ready {
		return nil
	}
	toon := loadToonShader()
	if !rl.IsShaderValid(toon) {
		return fmt.Errorf("toon: %w", ErrShader)
	}
	unlit := loadUnlitShader()
	if !rl.IsShaderValid(unlit) {
		rl.UnloadShader(toon)
		return fmt.Errorf("unlit: %w", ErrShader)
	}
	b.toon = rl.LoadMaterialDefault()
	b.toon.Shader = toon
	b.unlit = rl.LoadMaterialDefault()
	b.unlit.Shader = unlit
	b.ready = true
	return nil
}

// Upload puts every leaf under root on the GPU. Leaves already uploaded are skipped.
// On error, handles created so far stay attached to their leaves and are released by
// root.Dispose.
func (b *Backend) Upload(root *scene.Node) error {
	if err := b.ensure(); err != nil {
		return err
	}
	for _, leaf := range root.Leaves() {
		m := leaf.Mesh
		if m.GPU == nil {
			mesh, err := buildMesh(m.Geometry)
			if err != nil {
				return fmt.Errorf("upload %s: %w", leaf.Name, err)
			}
			m.GPU = &meshHandle{b: b, mesh: mesh}
			b.live++
		}
		if mat := m.Material; mat != nil && mat.GPU == nil && !mat.Unlit && mat.Ramp != nil {
			mat.GPU = rampTexture(mat)
		}
	}
	b.log.Debug("character uploaded", zap.Int("live_meshes", b.live))
	return nil
}

// Draw renders every uploaded leaf under root in RenderOrder. Must be called between
// BeginMode3D and EndMode3D.
func (b *Backend) Draw(root *scene.Node) {
	if !b.ready || root == nil {
		return
	}
	type item struct {
		node  *scene.Node
		world rl.Matrix
	}
	var items []item
	root.WalkWorld(func(n *scene.Node, m *mat32.Mat4) {
		if n.IsLeaf() {
			items = append(items, item{node: n, world: toMatrix(m)})
		}
	})
	slices.SortStableFunc(items, func(a, c item) int {
		return cmp.Compare(a.node.RenderOrder, c.node.RenderOrder)
	})
	setToonUniforms(b.toon.Shader, b.lightDir)
	for _, it := range items {
		b.drawLeaf(it.node, it.world)
	}
}

func (b *Backend) drawLeaf(n *scene.Node, world rl.Matrix) {
	h, ok := n.Mesh.GPU.(*meshHandle)
	if !ok {
		return
	}
	mat := n.Mesh.Material
	mtl := b.toon
	color := rl.White
	if mat != nil {
		color = toColor(mat.Color)
		if mat.Unlit {
			mtl = b.unlit
		}
		if tex, ok := mat.GPU.(*textureHandle); ok && !mat.Unlit {
			rl.SetMaterialTexture(&mtl, rl.MapAlbedo, tex.tex)
		}
	}
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = color
	}
	rl.DrawMesh(h.mesh, mtl, world)
}

// Close releases the shared materials. Character meshes are released through Node.Dispose.
func (b *Backend) Close() {
	if !b.ready {
		return
	}
	rl.UnloadShader(b.toon.Shader)
	rl.UnloadShader(b.unlit.Shader)
	b.ready = false
}

type meshHandle struct {
	b    *Backend
	mesh rl.Mesh
}

func (h *meshHandle) Release() {
	rl.UnloadMesh(&h.mesh)
	h.b.live--
}

type textureHandle struct {
	tex rl.Texture2D
}

func (h *textureHandle) Release() {
	rl.UnloadTexture(h.tex)
}

// rampTexture uploads the material's ramp with point sampling so the bands stay hard.
func rampTexture(mat *scene.Material) scene.Resource {
	img := rl.NewImageFromImage(mat.Ramp)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if !rl.IsTextureValid(tex) {
		return nil
	}
	rl.SetTextureFilter(tex, rl.FilterPoint)
	rl.SetTextureWrap(tex, rl.WrapClamp)
	return &textureHandle{tex: tex}
}

// buildMesh copies g into a raylib mesh and uploads it. raylib indices are 16-bit, so larger
// geometries are expanded to unindexed triangles.
func buildMesh(g *geom.Geometry) (rl.Mesh, error) {
	if g == nil || g.Released() || g.IsEmpty() {
		return rl.Mesh{}, ErrNoGeometry
	}
	positions, normals, indices := g.Positions, g.Normals, g.Indices
	if len(normals) != len(positions) {
		normals = make([]float32, len(positions))
	}
	if g.VertexCount() > math.MaxUint16 {
		positions, normals = unindex(positions, normals, indices)
		indices = nil
	}
	verts := slices.Clone(positions)
	norms := slices.Clone(normals)
	mesh := rl.Mesh{
		VertexCount:   int32(len(verts) / 3),
		TriangleCount: int32(g.TriangleCount()),
		Vertices:      &verts[0],
		Normals:       &norms[0],
	}
	if indices != nil {
		idx := make([]uint16, len(indices))
		for i, v := range indices {
			idx[i] = uint16(v)
		}
		mesh.Indices = &idx[0]
	}
	rl.UploadMesh(&mesh, false)
	if mesh.VaoID == 0 {
		return rl.Mesh{}, ErrUpload
	}
	return mesh, nil
}

func unindex(positions, normals []float32, indices []uint32) ([]float32, []float32) {
	p := make([]float32, 0, len(indices)*3)
	n := make([]float32, 0, len(indices)*3)
	for _, i := range indices {
		p = append(p, positions[i*3:i*3+3]...)
		n = append(n, normals[i*3:i*3+3]...)
	}
	return p, n
}

// toMatrix maps a column-major mat32 matrix onto raylib's layout (both keep translation in 12..14).
func toMatrix(m *mat32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func toColor(c colorful.Color) rl.Color {
	r, g, bl := c.Clamped().RGB255()
	return rl.NewColor(r, g, bl, 255)
}
