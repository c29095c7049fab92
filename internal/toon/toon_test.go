package toon

import (
	"testing"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"
	"avatar-studio/internal/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRampHasExactlyStepsLevels(t *testing.T) {
	for _, steps := range []int{1, 2, 3, 4, 8} {
		ramp, err := Ramp(steps)
		require.NoError(t, err)
		assert.Equal(t, RampWidth, ramp.Bounds().Dx())
		assert.Equal(t, 1, ramp.Bounds().Dy())
		assert.Equal(t, steps, Levels(ramp), "steps=%d", steps)
	}
}

func TestRampIsMonotonic(t *testing.T) {
	ramp, err := Ramp(4)
	require.NoError(t, err)
	prev := -1
	for x := 0; x < RampWidth; x++ {
		r, _, _, _ := ramp.At(x, 0).RGBA()
		assert.GreaterOrEqual(t, int(r), prev)
		prev = int(r)
	}
}

func TestRampRejectsBadSteps(t *testing.T) {
	for _, steps := range []int{0, -1, RampWidth + 1} {
		_, err := Ramp(steps)
		assert.ErrorIs(t, err, ErrSteps)
	}
}

func TestCreateToonMaterial(t *testing.T) {
	m, err := CreateToonMaterial("#ff8800", 3, "#ffffff", 0.4)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Steps)
	assert.Equal(t, "#ff8800", m.Color.Hex())
	assert.Equal(t, 0.4, m.RimIntensity)
	assert.Equal(t, "#ffffff", m.RimColor.Hex())
	assert.False(t, m.Unlit)
	assert.Equal(t, 3, Levels(m.Ramp))

	_, err = CreateToonMaterial("orange", 3, "#ffffff", 0)
	assert.Error(t, err)
}

func leaf(t *testing.T, name string, role scene.Role, pending string) *scene.Node {
	t.Helper()
	g, err := geom.Sphere(0.1, 8, 6)
	require.NoError(t, err)
	return scene.NewMesh(name, g, scene.Tag{Role: role, Part: name, PendingColor: pending})
}

func TestCreateOutlineMesh(t *testing.T) {
	src := leaf(t, "cap", scene.RoleHair, "#333333")
	src.Transform = scene.At(0, 1, 0).WithScale(1, 2, 1)
	hull, err := CreateOutlineMesh(src, 0.05, "#000000")
	require.NoError(t, err)

	assert.Equal(t, "cap-outline", hull.Name)
	assert.Equal(t, scene.RoleOutline, hull.Tag.Role)
	assert.Less(t, hull.RenderOrder, src.RenderOrder)
	assert.InDelta(t, 1.05, hull.Transform.Scale.X, 1e-6)
	assert.InDelta(t, 2.1, hull.Transform.Scale.Y, 1e-6)
	assert.InDelta(t, 1, hull.Transform.Position.Y, 1e-6)

	m := hull.Mesh.Material
	assert.True(t, m.Unlit)
	assert.Equal(t, scene.BackSide, m.Side)
	assert.Equal(t, "#000000", m.Color.Hex())

	// inverted copy, source untouched
	g, s := hull.Mesh.Geometry, src.Mesh.Geometry
	require.Equal(t, s.VertexCount(), g.VertexCount())
	assert.Equal(t, s.Indices[0], g.Indices[0])
	assert.Equal(t, s.Indices[1], g.Indices[2])
	assert.Equal(t, -s.Normals[0], g.Normals[0])
	g.Positions[0] = 42
	assert.NotEqual(t, float32(42), s.Positions[0])

	_, err = CreateOutlineMesh(scene.NewGroup("g"), 0.05, "#000000")
	assert.ErrorIs(t, err, ErrNotMesh)
}

func TestBuildOutlineSkipsBody(t *testing.T) {
	root := scene.NewGroup("character")
	body := scene.NewGroup("body")
	body.Add(leaf(t, "head", scene.RoleBody, "#f5d0b5"))
	hair := scene.NewGroup("hair")
	hair.Transform = scene.At(0, 2, 0)
	hair.Add(leaf(t, "cap", scene.RoleHair, "#333333"))
	outfit := scene.NewGroup("outfit")
	outfit.Add(leaf(t, "top", scene.RoleOutfit, "#ff0000"), leaf(t, "bottom", scene.RoleOutfit, "#0000ff"))
	root.Add(body, hair, outfit)

	out, err := BuildOutline(root, 0.03, DefaultColor)
	require.NoError(t, err)
	assert.Equal(t, "outline", out.Name)
	require.Len(t, out.Children, 3)
	hat := out.Find("cap-outline")
	require.NotNil(t, hat)
	assert.InDelta(t, 2, hat.Transform.Position.Y, 1e-5)
	assert.InDelta(t, 1.03, hat.Transform.Scale.Y, 1e-5)
	assert.Nil(t, out.Find("head-outline"))
}

func TestApplyMaterialsByRole(t *testing.T) {
	root := scene.NewGroup("character")
	head := leaf(t, "head", scene.RoleBody, "")
	hat := leaf(t, "cap", scene.RoleHair, "#112233")
	top := leaf(t, "top", scene.RoleOutfit, "")
	horn := leaf(t, "horn", scene.RoleAccessory, "")
	odd := leaf(t, "odd", scene.RoleNone, "")
	root.Add(head, hat, top, horn, odd)

	p := PaletteFrom(avatar.Default())
	assert.Equal(t, 5, ApplyMaterials(root, p, nil))

	assert.Equal(t, 4, head.Mesh.Material.Steps)
	assert.Equal(t, 0.15, head.Mesh.Material.RimIntensity)
	assert.Equal(t, "#f5d0b5", head.Mesh.Material.Color.Hex())

	assert.Equal(t, 3, hat.Mesh.Material.Steps)
	assert.Equal(t, "#112233", hat.Mesh.Material.Color.Hex())
	assert.Equal(t, 0.6, hat.Mesh.Material.Gloss)

	assert.Equal(t, 3, top.Mesh.Material.Steps)
	assert.Equal(t, "#e85a71", top.Mesh.Material.Color.Hex())
	assert.Equal(t, 3, horn.Mesh.Material.Steps)

	assert.Equal(t, 4, odd.Mesh.Material.Steps)
	assert.Equal(t, Neutral, odd.Mesh.Material.Color.Hex())
}

func TestApplyMaterialsFallsBackOnBadColor(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	root := scene.NewGroup("character")
	bad := leaf(t, "bad", scene.RoleOutfit, "not-a-color")
	root.Add(bad)
	assert.Equal(t, 1, ApplyMaterials(root, PaletteFrom(avatar.Default()), zap.New(core)))
	assert.Equal(t, Neutral, bad.Mesh.Material.Color.Hex())
	assert.Equal(t, 1, logs.Len())
}

func TestApplyMaterialsSkipsOutlineAndReplacesOld(t *testing.T) {
	root := scene.NewGroup("character")
	top := leaf(t, "top", scene.RoleOutfit, "#ff0000")
	root.Add(top)
	out, err := BuildOutline(root, 0.03, DefaultColor)
	require.NoError(t, err)
	root.Add(out)

	p := PaletteFrom(avatar.Default())
	require.Equal(t, 1, ApplyMaterials(root, p, nil))
	first := top.Mesh.Material
	require.Equal(t, 1, ApplyMaterials(root, p, nil))
	assert.True(t, first.Disposed())
	assert.True(t, out.Children[0].Mesh.Material.Unlit)
}

func TestSynthesizedCharacterGetsMaterials(t *testing.T) {
	cfg := avatar.Default()
	root := scene.NewGroup("character")
	root.Add(synth.New().Parts(cfg)...)
	n := ApplyMaterials(root, PaletteFrom(cfg), nil)
	assert.Equal(t, len(root.Leaves()), n)
	for _, l := range root.Leaves() {
		require.NotNil(t, l.Mesh.Material, l.Name)
	}
}
