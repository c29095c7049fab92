// Package scene holds the character's scene graph: groups and meshes with local
// transforms, semantic tags and the materials assigned to them.
package scene

import (
	"avatar-studio/internal/geom"

	"github.com/goki/mat32"
)

// Role is the semantic part a leaf belongs to. Materials are chosen by role.
type Role int

const (
	RoleNone Role = iota
	RoleBody
	RoleHair
	RoleOutfit
	RoleAccessory
	RoleOutline
)

func (r Role) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RoleHair:
		return "hair"
	case RoleOutfit:
		return "outfit"
	case RoleAccessory:
		return "accessory"
	case RoleOutline:
		return "outline"
	}
	return "none"
}

// Tag is attached by the generators and consumed by the material pass.
// PendingColor, when set, overrides the role's palette color.
type Tag struct {
	Role         Role
	Part         string
	PendingColor string
	Fallback     bool
}

// Resource is a backend-owned handle (GPU buffer, texture) that must be released explicitly.
type Resource interface {
	Release()
}

// Mesh pairs a geometry with its material. GPU is set by the render backend after upload.
type Mesh struct {
	Geometry *geom.Geometry
	Material *Material
	GPU      Resource
}

// Node is a group (no Mesh) or a leaf (with Mesh).
type Node struct {
	Name        string
	Transform   Transform
	Tag         Tag
	Mesh        *Mesh
	RenderOrder int
	Children    []*Node
	parent      *Node
}

// NewGroup returns an empty group with the identity transform.
func NewGroup(name string) *Node {
	return &Node{Name: name, Transform: Identity()}
}

// NewMesh returns a leaf with the identity transform.
func NewMesh(name string, g *geom.Geometry, tag Tag) *Node {
	return &Node{Name: name, Transform: Identity(), Tag: tag, Mesh: &Mesh{Geometry: g}}
}

// IsLeaf reports whether n carries a mesh.
func (n *Node) IsLeaf() bool {
	return n.Mesh != nil
}

// Parent returns the node n is attached to, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Add attaches children to n, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Remove detaches child from n. It returns false when child is not a direct child.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Find returns the first node named name in depth-first order, including n itself.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Walk visits n and its descendants depth first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// WalkWorld visits every node with its matrix relative to n (n's own transform excluded).
func (n *Node) WalkWorld(fn func(c *Node, m *mat32.Mat4)) {
	var id mat32.Mat4
	id.SetIdentity()
	for _, c := range n.Children {
		c.walkWorld(&id, fn)
	}
}

func (n *Node) walkWorld(parent *mat32.Mat4, fn func(*Node, *mat32.Mat4)) {
	local := n.Transform.Matrix()
	var world mat32.Mat4
	world.MulMatrices(parent, &local)
	fn(n, &world)
	for _, c := range n.Children {
		c.walkWorld(&world, fn)
	}
}

// Leaves returns every mesh-carrying node under n.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.IsLeaf() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// VertexCount sums the vertices of every leaf under n.
func (n *Node) VertexCount() int {
	total := 0
	for _, l := range n.Leaves() {
		if l.Mesh.Geometry != nil {
			total += l.Mesh.Geometry.VertexCount()
		}
	}
	return total
}

// Clone returns a deep copy: new nodes, geometry buffers and materials. GPU handles
// are not copied; the clone is a CPU-side snapshot.
func (n *Node) Clone() *Node {
	out := &Node{
		Name:        n.Name,
		Transform:   n.Transform,
		Tag:         n.Tag,
		RenderOrder: n.RenderOrder,
	}
	if n.Mesh != nil {
		m := &Mesh{}
		if n.Mesh.Geometry != nil {
			m.Geometry = n.Mesh.Geometry.Clone()
		}
		if n.Mesh.Material != nil {
			m.Material = n.Mesh.Material.Clone()
		}
		out.Mesh = m
	}
	for _, c := range n.Children {
		out.Add(c.Clone())
	}
	return out
}

// Dispose releases every GPU handle, geometry buffer and material under n.
// It returns the number of meshes released.
func (n *Node) Dispose() int {
	count := 0
	n.Walk(func(c *Node) bool {
		if c.Mesh == nil {
			return true
		}
		if c.Mesh.GPU != nil {
			c.Mesh.GPU.Release()
			c.Mesh.GPU = nil
		}
		if c.Mesh.Geometry != nil {
			c.Mesh.Geometry.Release()
		}
		if c.Mesh.Material != nil {
			c.Mesh.Material.Dispose()
		}
		count++
		return true
	})
	return count
}
