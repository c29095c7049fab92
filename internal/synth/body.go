package synth

import (
	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"
)

const (
	headSegs  = 24
	limbSegs  = 12
	eyeRadius = 0.018
)

// Body builds head, eyes, neck, torso, hips, arms and legs as independent primitives.
// This is parametric composition; nothing is skinned.
func Body(in Input) (*scene.Node, error) {
	f := in.Frame
	c := in.Config
	skin, err := hexColor(c.SkinTone)
	if err != nil {
		return nil, err
	}
	left, err := hexColor(c.Eyes.ColorLeft)
	if err != nil {
		return nil, err
	}
	right, err := hexColor(c.Eyes.ColorRight)
	if err != nil {
		return nil, err
	}
	tag := func(part, color string) scene.Tag {
		return scene.Tag{Role: scene.RoleBody, Part: part, PendingColor: color}
	}

	p := newParts("body-parts")
	hc := f.HeadCenter
	g, err := geom.Sphere(f.HeadRadius, headSegs, headSegs*2/3)
	p.add("head", g, err, tag("head", skin), scene.At(hc.X, hc.Y, hc.Z))

	// faceId nudges eye spacing so presets read as different faces.
	spacing := 0.038 + 0.003*float32(c.FaceID%4)
	eyeScaleY := 0.8 + 0.5*float32(c.Eyes.IrisShape)
	for _, e := range []struct {
		name  string
		side  float32
		color string
	}{{"eye-left", -1, left}, {"eye-right", 1, right}} {
		g, err = geom.Sphere(eyeRadius, 12, 8)
		p.add(e.name, g, err, tag(e.name, e.color),
			scene.At(e.side*spacing, hc.Y+0.01, f.HeadRadius*0.88).WithScale(1, eyeScaleY, 0.6))
	}

	g, err = geom.Cylinder(f.NeckLength, f.NeckRadius, limbSegs)
	p.add("neck", g, err, tag("neck", skin), scene.At(0, f.ShoulderY+f.NeckLength/2, 0))

	g, err = geom.Tapered(f.TorsoHeight, f.ShoulderRadius, f.WaistRadius, headSegs)
	p.add("torso", g, err, tag("torso", skin),
		scene.At(0, f.HipY+f.TorsoHeight/2, 0).WithScale(1, 1, f.TorsoDepth))

	g, err = geom.Sphere(f.HipRadius, headSegs, 12)
	p.add("hips", g, err, tag("hips", skin),
		scene.At(0, f.HipY, 0).WithScale(1, 0.7, f.TorsoDepth*0.9))

	for _, side := range []struct {
		suffix string
		x      float32
	}{{"left", -1}, {"right", 1}} {
		g, err = geom.Cylinder(f.ArmLength, f.ArmRadius, limbSegs)
		p.add("arm-"+side.suffix, g, err, tag("arm", skin),
			scene.At(side.x*f.ArmX, f.ShoulderY-f.ArmLength/2, 0).WithRotation(0, 0, -side.x*0.08))

		g, err = geom.Cylinder(f.LegLength, f.LegRadius, limbSegs)
		p.add("leg-"+side.suffix, g, err, tag("leg", skin),
			scene.At(side.x*f.LegX, f.LegLength/2, 0))
	}
	return p.done()
}
