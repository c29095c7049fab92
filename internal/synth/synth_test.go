package synth

import (
	"errors"
	"math/rand/v2"
	"testing"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"

	"github.com/chewxy/math32"
	"github.com/goki/mat32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestEveryHairStyleBuilds(t *testing.T) {
	s := New()
	for _, style := range avatar.Styles() {
		t.Run(style, func(t *testing.T) {
			cfg := avatar.Default()
			cfg.Hair.Style = style
			hair := s.HairFor(cfg)
			require.Equal(t, "hair", hair.Name)
			require.Len(t, hair.Children, 1)
			assert.Equal(t, style, hair.Children[0].Name)
			assert.Positive(t, hair.VertexCount())
			for _, leaf := range hair.Leaves() {
				assert.Equal(t, scene.RoleHair, leaf.Tag.Role)
				assert.False(t, leaf.Tag.Fallback)
				assert.NotEmpty(t, leaf.Tag.PendingColor)
			}
		})
	}
}

func TestHairIsDeterministicExceptMessy(t *testing.T) {
	s := New()
	for _, style := range avatar.Styles() {
		if style == avatar.StyleMessy {
			continue
		}
		cfg := avatar.Default()
		cfg.Hair.Style = style
		assert.Equal(t, s.HairFor(cfg).VertexCount(), s.HairFor(cfg).VertexCount(), style)
	}
}

func TestMessyHairWithSeedIsReproducible(t *testing.T) {
	cfg := avatar.Default()
	cfg.Hair.Style = avatar.StyleMessy
	a := New(WithRand(rand.New(rand.NewPCG(7, 11)))).HairFor(cfg)
	b := New(WithRand(rand.New(rand.NewPCG(7, 11)))).HairFor(cfg)
	assert.Equal(t, a.VertexCount(), b.VertexCount())
	assert.Equal(t, len(a.Leaves()), len(b.Leaves()))
	// cap plus 6..9 spikes
	n := len(a.Leaves())
	assert.GreaterOrEqual(t, n, 7)
	assert.LessOrEqual(t, n, 10)
}

func TestTwinTailsAreMirrored(t *testing.T) {
	cfg := avatar.Default()
	cfg.Hair.Style = avatar.StyleTwinTails
	hair := New().HairFor(cfg)
	left := hair.Find("tail-left")
	right := hair.Find("tail-right")
	require.NotNil(t, left)
	require.NotNil(t, right)
	assert.False(t, left.IsLeaf())
	assert.InDelta(t, -left.Transform.Position.X, right.Transform.Position.X, 1e-6)
	assert.InDelta(t, left.Transform.Position.Y, right.Transform.Position.Y, 1e-6)
	assert.Equal(t, left.VertexCount(), right.VertexCount())
}

func TestEveryOutfitHasTopAndBottom(t *testing.T) {
	s := New()
	for _, id := range avatar.Outfits() {
		for _, g := range []avatar.Gender{avatar.Male, avatar.Female} {
			cfg := avatar.Default()
			cfg.Gender = g
			cfg.Outfit.ID = id
			out := s.Outfit(cfg)
			top, bottom := out.Find("top"), out.Find("bottom")
			require.NotNil(t, top, id)
			require.NotNil(t, bottom, id)
			assert.Equal(t, "#e85a71", top.Tag.PendingColor)
			assert.Equal(t, "#2b2d42", bottom.Tag.PendingColor)
			assert.Len(t, out.Leaves(), 2)
		}
	}
}

func TestSchoolBottomDependsOnGender(t *testing.T) {
	s := New()
	cfg := avatar.Default()
	cfg.Outfit.ID = avatar.OutfitSchool

	cfg.Gender = avatar.Female
	skirt := s.Outfit(cfg).Find("bottom")
	require.NotNil(t, skirt)
	assert.Equal(t, geom.ShapeCone, skirt.Mesh.Geometry.Shape)

	cfg.Gender = avatar.Male
	trousers := s.Outfit(cfg).Find("bottom")
	require.NotNil(t, trousers)
	assert.Equal(t, geom.ShapeCylinder, trousers.Mesh.Geometry.Shape)
}

func TestDressBottomIsCone(t *testing.T) {
	cfg := avatar.Default()
	cfg.Outfit.ID = avatar.OutfitDress
	bottom := New().Outfit(cfg).Find("bottom")
	require.NotNil(t, bottom)
	assert.Equal(t, geom.ShapeCone, bottom.Mesh.Geometry.Shape)
}

func TestAccessoryGroupCarriesRecordTransform(t *testing.T) {
	cfg := avatar.Default()
	cfg.Accessories = []avatar.Accessory{{
		ID:    avatar.AccessoryHornsSmall,
		Pos:   [3]float64{0.1, 0.2, 0.3},
		Rot:   [3]float64{0, 0.5, 0},
		Scale: 1.5,
	}}
	g := New().Accessory(cfg, 0)
	assert.Equal(t, "accessory-0", g.Name)
	head := NewFrame(cfg).HeadCenter
	assert.InDelta(t, head.Y, g.Transform.Position.Y, 1e-6)

	mount := g.Find("mount")
	require.NotNil(t, mount)
	assert.InDelta(t, 0.1, mount.Transform.Position.X, 1e-6)
	assert.InDelta(t, 0.2, mount.Transform.Position.Y, 1e-6)
	assert.InDelta(t, 0.3, mount.Transform.Position.Z, 1e-6)
	assert.InDelta(t, 0.5, mount.Transform.Rotation.Y, 1e-6)
	assert.InDelta(t, 1.5, mount.Transform.Scale.X, 1e-6)
	assert.InDelta(t, 1.5, mount.Transform.Scale.Z, 1e-6)
	assert.Len(t, g.Leaves(), 2)
}

// leafPositions returns the world position of every leaf of an accessory group.
func leafPositions(g *scene.Node) map[string]mat32.Vec3 {
	holder := scene.NewGroup("root")
	holder.Add(g)
	out := map[string]mat32.Vec3{}
	holder.WalkWorld(func(n *scene.Node, m *mat32.Mat4) {
		if n.IsLeaf() {
			out[n.Name] = scene.FromMatrix(m).Position
		}
	})
	return out
}

func dist(a, b mat32.Vec3) float32 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

func TestAccessoryTransformPivotsAtAnchor(t *testing.T) {
	s := New()
	cfg := avatar.Default()
	f := NewFrame(cfg)
	r := f.HeadRadius

	cfg.Accessories = []avatar.Accessory{{ID: avatar.AccessoryHornsSmall, Scale: 1}}
	rest := leafPositions(s.Accessory(cfg, 0))
	cfg.Accessories = []avatar.Accessory{{ID: avatar.AccessoryHornsSmall, Rot: [3]float64{0, 0, 0.2}, Scale: 1.2}}
	moved := leafPositions(s.Accessory(cfg, 0))

	require.Len(t, moved, 2)
	for name, p := range moved {
		assert.Less(t, dist(p, f.HeadCenter), 2*r, name)
		assert.Less(t, dist(p, rest[name]), r, name)
	}
}

func TestTailStaysOnLowerBack(t *testing.T) {
	cfg := avatar.Default()
	cfg.Accessories = []avatar.Accessory{{ID: avatar.AccessoryTailLong, Rot: [3]float64{0.2, 0, 0}, Scale: 0.8}}
	f := NewFrame(cfg)
	g := New().Accessory(cfg, 0)
	assert.Equal(t, tailAnchor(f), g.Transform.Position)
	for name, p := range leafPositions(g) {
		assert.Less(t, dist(p, tailAnchor(f)), float32(0.55), name)
	}
}

func TestEveryAccessoryBuilds(t *testing.T) {
	s := New()
	for _, id := range avatar.AccessoryIDs() {
		cfg := avatar.Default()
		cfg.Accessories = []avatar.Accessory{{ID: id, Scale: 1}}
		g := s.Accessory(cfg, 0)
		require.NotEmpty(t, g.Leaves(), id)
		for _, leaf := range g.Leaves() {
			assert.Equal(t, scene.RoleAccessory, leaf.Tag.Role, id)
			assert.False(t, leaf.Tag.Fallback, id)
		}
	}
}

func TestUnknownAccessoryFallsBackSilently(t *testing.T) {
	log, logs := observed()
	s := New(WithLogger(log))
	cfg := avatar.Default()
	cfg.Accessories = []avatar.Accessory{{ID: "wings", Scale: 1}}
	g := s.Accessory(cfg, 0)
	leaves := g.Leaves()
	require.Len(t, leaves, 1)
	assert.True(t, leaves[0].Tag.Fallback)
	assert.Equal(t, scene.RoleAccessory, leaves[0].Tag.Role)
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestUnknownHairStyleWarns(t *testing.T) {
	log, logs := observed()
	s := New(WithLogger(log))
	cfg := avatar.Default()
	cfg.Hair.Style = "mohawk"
	hair := s.HairFor(cfg)
	require.Len(t, hair.Leaves(), 1)
	assert.True(t, hair.Leaves()[0].Tag.Fallback)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestGuardRecoversPanicsAndErrors(t *testing.T) {
	log, logs := observed()
	r := NewRegistry("hair", scene.RoleHair, log)
	r.Register("boom", func(Input) (*scene.Node, error) { panic("boom") })
	r.Register("broken", func(Input) (*scene.Node, error) { return nil, errors.New("broken") })
	r.Register("empty", func(Input) (*scene.Node, error) { return nil, nil })

	for _, id := range []string{"boom", "broken", "empty"} {
		var n *scene.Node
		require.NotPanics(t, func() { n = r.Build(id, Input{Config: avatar.Default()}) })
		require.NotNil(t, n, id)
		assert.True(t, n.Tag.Fallback, id)
		assert.Equal(t, scene.RoleHair, n.Tag.Role, id)
		assert.Equal(t, "fallback-"+id, n.Name)
	}
	assert.Equal(t, 3, logs.FilterMessageSnippet("using fallback").Len())
	assert.Equal(t, []string{"boom", "broken", "empty"}, r.IDs())
}

func TestInvalidColorFallsBack(t *testing.T) {
	cfg := avatar.Default()
	cfg.Hair.RootColor = "brown"
	hair := New().HairFor(cfg)
	require.Len(t, hair.Leaves(), 1)
	assert.True(t, hair.Leaves()[0].Tag.Fallback)

	cfg = avatar.Default()
	cfg.SkinTone = "#zzzzzz"
	body := New().Body(cfg)
	require.Len(t, body.Leaves(), 1)
	assert.True(t, body.Leaves()[0].Tag.Fallback)
}

func TestBodyParts(t *testing.T) {
	body := New().Body(avatar.Default())
	for _, name := range []string{"head", "eye-left", "eye-right", "neck", "torso", "hips",
		"arm-left", "arm-right", "leg-left", "leg-right"} {
		n := body.Find(name)
		require.NotNil(t, n, name)
		assert.Equal(t, scene.RoleBody, n.Tag.Role)
	}
	assert.Equal(t, "#4a7bd1", body.Find("eye-left").Tag.PendingColor)
	assert.Equal(t, "#f5d0b5", body.Find("head").Tag.PendingColor)
}

func TestFrameFollowsPhysique(t *testing.T) {
	short := avatar.Default()
	short.Physique.Height = 0
	tall := avatar.Default()
	tall.Physique.Height = 1
	assert.Less(t, NewFrame(short).HeadCenter.Y, NewFrame(tall).HeadCenter.Y)

	flat := avatar.Default()
	flat.Physique.Bust = 0
	full := avatar.Default()
	full.Physique.Bust = 1
	assert.Less(t, NewFrame(flat).TorsoDepth, NewFrame(full).TorsoDepth)

	male := avatar.Default()
	male.Gender = avatar.Male
	male.Physique.Bust = 1
	assert.InDelta(t, 0.75, NewFrame(male).TorsoDepth, 1e-6)
}

func TestPartsOrder(t *testing.T) {
	cfg := avatar.Default()
	cfg.Accessories = []avatar.Accessory{{ID: avatar.AccessoryMask, Scale: 1}, {ID: avatar.AccessoryGoggles, Scale: 1}}
	var names []string
	for _, p := range New().Parts(cfg) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"body", "hair", "outfit", "accessory-0", "accessory-1"}, names)
}
