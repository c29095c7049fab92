package synth

import (
	"avatar-studio/internal/avatar"
	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"
)

const clothSegs = 24

// registerOutfits installs the four built-in outfits. Every outfit emits exactly one
// "top" (primary color) and one "bottom" (secondary color).
func registerOutfits(r *Registry) {
	r.Register(avatar.OutfitCasual, outfitCasual)
	r.Register(avatar.OutfitSchool, outfitSchool)
	r.Register(avatar.OutfitDress, outfitDress)
	r.Register(avatar.OutfitSporty, outfitSporty)
}

func outfitColors(o avatar.Outfit) (primary, secondary string, err error) {
	primary, err = hexColor(o.PrimaryColor)
	if err != nil {
		return "", "", err
	}
	secondary, err = hexColor(o.SecondaryColor)
	return primary, secondary, err
}

func outfitTag(part, color string) scene.Tag {
	return scene.Tag{Role: scene.RoleOutfit, Part: part, PendingColor: color}
}

// top adds a shirt shell over the torso. coverage is the fraction of torso height,
// measured down from the shoulders.
func top(p *parts, f Frame, color string, coverage float32) {
	h := f.TorsoHeight * coverage
	g, err := geom.Tapered(h, f.ShoulderRadius*1.08, f.WaistRadius*1.1, clothSegs)
	p.add("top", g, err, outfitTag("top", color),
		scene.At(0, f.ShoulderY-h/2, 0).WithScale(1, 1, f.TorsoDepth*1.05))
}

// pants adds a straight cylinder from the hips covering length of the legs.
func pants(p *parts, f Frame, color string, length float32) {
	h := f.LegLength * length
	g, err := geom.Cylinder(h, f.HipRadius*1.05, clothSegs)
	p.add("bottom", g, err, outfitTag("bottom", color), scene.At(0, f.HipY+0.04-h/2, 0))
}

// skirt adds a flared cone from the waist band.
func skirt(p *parts, f Frame, color string, length, flare float32) {
	h := f.LegLength * length
	g, err := geom.Cone(h, f.WaistRadius*1.1, f.HipRadius*flare, clothSegs)
	p.add("bottom", g, err, outfitTag("bottom", color), scene.At(0, f.HipY+0.06-h/2, 0))
}

func outfitCasual(in Input) (*scene.Node, error) {
	primary, secondary, err := outfitColors(in.Config.Outfit)
	if err != nil {
		return nil, err
	}
	p := newParts(avatar.OutfitCasual)
	top(p, in.Frame, primary, 0.95)
	pants(p, in.Frame, secondary, 0.9)
	return p.done()
}

// outfitSchool picks a pleated skirt for female and trousers for male characters.
func outfitSchool(in Input) (*scene.Node, error) {
	primary, secondary, err := outfitColors(in.Config.Outfit)
	if err != nil {
		return nil, err
	}
	p := newParts(avatar.OutfitSchool)
	top(p, in.Frame, primary, 1.0)
	if in.Config.Gender == avatar.Female {
		skirt(p, in.Frame, secondary, 0.3, 1.6)
	} else {
		pants(p, in.Frame, secondary, 0.95)
	}
	return p.done()
}

func outfitDress(in Input) (*scene.Node, error) {
	primary, secondary, err := outfitColors(in.Config.Outfit)
	if err != nil {
		return nil, err
	}
	p := newParts(avatar.OutfitDress)
	top(p, in.Frame, primary, 0.9)
	skirt(p, in.Frame, secondary, 0.6, 1.9)
	return p.done()
}

func outfitSporty(in Input) (*scene.Node, error) {
	primary, secondary, err := outfitColors(in.Config.Outfit)
	if err != nil {
		return nil, err
	}
	p := newParts(avatar.OutfitSporty)
	top(p, in.Frame, primary, 0.7)
	pants(p, in.Frame, secondary, 0.3)
	return p.done()
}
