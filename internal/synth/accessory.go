package synth

import (
	"avatar-studio/internal/avatar"
	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"

	"github.com/chewxy/math32"
	"github.com/goki/mat32"
)

// Accessory colors. Accessories carry no colors in the configuration.
const (
	hornColor  = "#f2e6d0"
	frameColor = "#3a3a3a"
	lensColor  = "#7fd3ff"
	maskColor  = "#ffffff"
)

// registerAccessories installs the built-in accessories. Unknown ids fall back silently.
func registerAccessories(r *Registry) {
	r.Register(avatar.AccessoryHornsSmall, horns(0.35, 0.1, 0.35))
	r.Register(avatar.AccessoryHornsLarge, horns(0.7, 0.16, 0.5))
	r.Register(avatar.AccessoryTailShort, tail(0.25, 0.035))
	r.Register(avatar.AccessoryTailLong, tail(0.55, 0.045))
	r.Register(avatar.AccessoryGoggles, goggles)
	r.Register(avatar.AccessoryMask, mask)
}

// accessoryAnchors are the attachment points accessories are built around. The record's
// position, rotation and scale act about this point. Unknown ids anchor at the origin.
var accessoryAnchors = map[string]func(Frame) mat32.Vec3{
	avatar.AccessoryHornsSmall: headAnchor,
	avatar.AccessoryHornsLarge: headAnchor,
	avatar.AccessoryTailShort:  tailAnchor,
	avatar.AccessoryTailLong:   tailAnchor,
	avatar.AccessoryGoggles:    headAnchor,
	avatar.AccessoryMask:       headAnchor,
}

func headAnchor(f Frame) mat32.Vec3 { return f.HeadCenter }

// tailAnchor is the lower back, on the surface of the hips.
func tailAnchor(f Frame) mat32.Vec3 { return mat32.NewVec3(0, f.HipY, -f.HipRadius*0.9) }

// anchorFor returns the attachment point of id for frame f.
func anchorFor(id string, f Frame) mat32.Vec3 {
	if a, ok := accessoryAnchors[id]; ok {
		return a(f)
	}
	return mat32.Vec3{}
}

func accessoryTag(part, color string) scene.Tag {
	return scene.Tag{Role: scene.RoleAccessory, Part: part, PendingColor: color}
}

// horns builds a mirrored pair of cones on top of the head, relative to the head center.
// length and radius are in head radii; splay is the outward roll in radians.
func horns(length, radius, splay float32) Generator {
	return func(in Input) (*scene.Node, error) {
		f := in.Frame
		r := f.HeadRadius
		p := newParts("horns")
		for _, side := range []float32{-1, 1} {
			g, err := geom.Cone(r*length, 0, r*radius, strandSegs)
			p.add(sideName("horn", side), g, err, accessoryTag("horn", hornColor),
				scene.At(side*r*0.5, r*(0.85+length/2), -r*0.05).WithRotation(-0.2, 0, -side*splay))
		}
		return p.done()
	}
}

// tail builds a cone leaving the lower back and trailing behind the character, relative
// to the tail anchor. length and radius are in meters. The tail takes the hair root color.
func tail(length, radius float32) Generator {
	return func(in Input) (*scene.Node, error) {
		color, err := hexColor(in.Config.Hair.RootColor)
		if err != nil {
			return nil, err
		}
		p := newParts("tail")
		tilt := -math32.Pi/2 - 0.6
		base := scene.Identity()
		g, err := geom.Cone(length, 0, radius, strandSegs)
		// rotate the cone so its base sits on the body and its tip trails backward
		off := length / 2
		tr := base.WithRotation(tilt, 0, 0)
		tr.Position.Y += -math32.Cos(tilt) * off
		tr.Position.Z += -math32.Sin(tilt) * off
		p.add("tail", g, err, accessoryTag("tail", color), tr)
		return p.done()
	}
}

func goggles(in Input) (*scene.Node, error) {
	f := in.Frame
	r := f.HeadRadius
	y := r * 0.25
	p := newParts("goggles")
	g, err := geom.Cylinder(r*0.18, r*1.06, capSegs)
	p.add("band", g, err, accessoryTag("band", frameColor), scene.At(0, y, 0))
	for _, side := range []float32{-1, 1} {
		g, err = geom.Cylinder(r*0.12, r*0.22, strandSegs)
		p.add(sideName("lens", side), g, err, accessoryTag("lens", lensColor),
			scene.At(side*r*0.38, y, r*0.95).WithRotation(math32.Pi/2, 0, 0))
	}
	return p.done()
}

func mask(in Input) (*scene.Node, error) {
	f := in.Frame
	r := f.HeadRadius
	p := newParts("mask")
	g, err := geom.Hemisphere(r*1.02, capSegs, 8)
	// the dome faces forward and is squashed to cover the lower face
	p.add("mask", g, err, accessoryTag("mask", maskColor),
		scene.At(0, -r*0.3, r*0.05).WithRotation(math32.Pi/2, 0, 0).WithScale(1, 1, 0.55))
	return p.done()
}
