package toon

import (
	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"

	"go.uber.org/zap"
)

// Neutral is the base color of unrecognized roles and of leaves whose color fails to parse.
const Neutral = "#b8b8b8"

// Palette holds the per-role base colors. A leaf's pending color wins over its role color.
type Palette struct {
	Skin      string
	Hair      string
	Outfit    string
	Accessory string
	Rim       string
	Gloss     float64
}

// PaletteFrom derives the role colors from a configuration.
func PaletteFrom(c avatar.Config) Palette {
	return Palette{
		Skin:      c.SkinTone,
		Hair:      c.Hair.RootColor,
		Outfit:    c.Outfit.PrimaryColor,
		Accessory: "#d9d9d9",
		Rim:       "#ffffff",
		Gloss:     c.Hair.Gloss,
	}
}

// band is the shading recipe for one role.
type band struct {
	steps int
	rim   float64
}

var bands = map[scene.Role]band{
	scene.RoleBody:      {steps: 4, rim: 0.15},
	scene.RoleHair:      {steps: 3, rim: 0.3},
	scene.RoleOutfit:    {steps: 3, rim: 0.2},
	scene.RoleAccessory: {steps: 3, rim: 0.25},
}

var neutralBand = band{steps: 4, rim: 0}

func (p Palette) roleColor(r scene.Role) string {
	switch r {
	case scene.RoleBody:
		return p.Skin
	case scene.RoleHair:
		return p.Hair
	case scene.RoleOutfit:
		return p.Outfit
	case scene.RoleAccessory:
		return p.Accessory
	}
	return Neutral
}

// ApplyMaterials assigns a toon material to every leaf under root except outline hulls,
// which carry their own. It returns the number of materials assigned. A color that does
// not parse is replaced by Neutral and logged; ApplyMaterials never fails.
func ApplyMaterials(root *scene.Node, p Palette, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}
	rim := p.Rim
	if !avatar.ValidColor(rim) {
		rim = "#ffffff"
	}
	n := 0
	for _, leaf := range root.Leaves() {
		if leaf.Tag.Role == scene.RoleOutline {
			continue
		}
		b, ok := bands[leaf.Tag.Role]
		if !ok {
			b = neutralBand
		}
		color := leaf.Tag.PendingColor
		if color == "" {
			color = p.roleColor(leaf.Tag.Role)
		}
		if leaf.Tag.Fallback && leaf.Tag.PendingColor == "" {
			color = Neutral
		}
		mat, err := CreateToonMaterial(color, b.steps, rim, b.rim)
		if err != nil {
			log.Warn("material failed, using neutral",
				zap.String("node", leaf.Name), zap.String("color", color), zap.Error(err))
			mat, _ = CreateToonMaterial(Neutral, neutralBand.steps, rim, 0)
		}
		if leaf.Tag.Role == scene.RoleHair {
			mat.Gloss = p.Gloss
		}
		if old := leaf.Mesh.Material; old != nil {
			old.Dispose()
		}
		leaf.Mesh.Material = mat
		n++
	}
	return n
}
