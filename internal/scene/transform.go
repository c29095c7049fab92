package scene

import (
	"github.com/goki/mat32"
)

// Transform is a local position, Euler rotation (radians, XYZ) and scale.
type Transform struct {
	Position mat32.Vec3
	Rotation mat32.Vec3
	Scale    mat32.Vec3
}

// Identity returns the rest transform.
func Identity() Transform {
	return Transform{Scale: mat32.NewVec3(1, 1, 1)}
}

// At returns the identity transform moved to (x, y, z).
func At(x, y, z float32) Transform {
	t := Identity()
	t.Position = mat32.NewVec3(x, y, z)
	return t
}

// WithRotation returns a copy of t with the given Euler rotation.
func (t Transform) WithRotation(x, y, z float32) Transform {
	t.Rotation = mat32.NewVec3(x, y, z)
	return t
}

// WithScale returns a copy of t with the given scale.
func (t Transform) WithScale(x, y, z float32) Transform {
	t.Scale = mat32.NewVec3(x, y, z)
	return t
}

// Quat returns the rotation as a quaternion.
func (t Transform) Quat() mat32.Quat {
	var q mat32.Quat
	q.SetFromEuler(t.Rotation)
	return q
}

// Matrix composes translation, rotation and scale.
func (t Transform) Matrix() mat32.Mat4 {
	var m mat32.Mat4
	m.SetTransform(t.Position, t.Quat(), t.Scale)
	return m
}

// FromMatrix decomposes m into a Transform.
func FromMatrix(m *mat32.Mat4) Transform {
	pos, q, sc := m.Decompose()
	return Transform{Position: pos, Rotation: q.ToEuler(), Scale: sc}
}
