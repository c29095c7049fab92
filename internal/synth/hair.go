package synth

import (
	"strconv"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"

	"github.com/chewxy/math32"
)

const (
	capSegs    = 24
	strandSegs = 10
	// strandBlend is how far strand color moves from root toward tip.
	strandBlend = 0.6
)

// hairColors resolves the cap (root) and strand colors.
func hairColors(h avatar.Hair) (root, strand string, err error) {
	root, err = hexColor(h.RootColor)
	if err != nil {
		return "", "", err
	}
	strand, err = blendColor(h.RootColor, h.TipColor, strandBlend)
	return root, strand, err
}

func hairTag(part, color string) scene.Tag {
	return scene.Tag{Role: scene.RoleHair, Part: part, PendingColor: color}
}

// hairCap adds the skull cap shared by every style.
func hairCap(p *parts, f Frame, color string) {
	hc := f.HeadCenter
	g, err := geom.Hemisphere(f.HeadRadius*1.08, capSegs, 8)
	p.add("cap", g, err, hairTag("cap", color), scene.At(hc.X, hc.Y, hc.Z-0.01))
}

// registerHair installs the six built-in styles.
func registerHair(r *Registry) {
	r.Register(avatar.StyleShort, hairShort)
	r.Register(avatar.StyleLong, hairLong)
	r.Register(avatar.StyleTwinTails, hairTwinTails)
	r.Register(avatar.StylePonytail, hairPonytail)
	r.Register(avatar.StyleBob, hairBob)
	r.Register(avatar.StyleMessy, hairMessy)
}

func hairShort(in Input) (*scene.Node, error) {
	root, strand, err := hairColors(in.Config.Hair)
	if err != nil {
		return nil, err
	}
	f := in.Frame
	r, hc := f.HeadRadius, f.HeadCenter
	p := newParts(avatar.StyleShort)
	hairCap(p, f, root)
	g, err := geom.Box(r*1.6, r*0.35, r*0.3)
	p.add("fringe", g, err, hairTag("fringe", strand),
		scene.At(0, hc.Y+r*0.55, r*0.75).WithRotation(-0.3, 0, 0))
	return p.done()
}

func hairLong(in Input) (*scene.Node, error) {
	root, strand, err := hairColors(in.Config.Hair)
	if err != nil {
		return nil, err
	}
	f := in.Frame
	r, hc := f.HeadRadius, f.HeadCenter
	p := newParts(avatar.StyleLong)
	hairCap(p, f, root)
	g, err := geom.Box(r*2.0, r*3.2, r*0.5)
	p.add("back", g, err, hairTag("back", strand), scene.At(0, hc.Y-r*1.1, -r*0.75))
	for _, side := range []float32{-1, 1} {
		g, err = geom.Tapered(r*2.2, r*0.18, r*0.12, strandSegs)
		p.add(sideName("lock", side), g, err, hairTag("lock", strand),
			scene.At(side*r*0.95, hc.Y-r*0.7, r*0.1))
	}
	return p.done()
}

// hairTwinTails builds two mirrored sub-groups, tail-left and tail-right.
func hairTwinTails(in Input) (*scene.Node, error) {
	root, strand, err := hairColors(in.Config.Hair)
	if err != nil {
		return nil, err
	}
	f := in.Frame
	r, hc := f.HeadRadius, f.HeadCenter
	p := newParts(avatar.StyleTwinTails)
	hairCap(p, f, root)
	length := r * 2.6
	for _, side := range []float32{-1, 1} {
		tail := newParts(sideName("tail", side))
		tail.group.Transform = scene.At(side*r*1.15, hc.Y+r*0.2, -r*0.2)
		g, err := geom.Sphere(r*0.15, strandSegs, 6)
		tail.add("tie", g, err, hairTag("tie", root), scene.Identity())
		// a cone points up; flip it so the tip hangs down, splayed outward
		g, err = geom.Cone(length, 0, r*0.3, strandSegs)
		tail.add("strand", g, err, hairTag("strand", strand),
			scene.At(side*r*0.15, -length/2, 0).WithRotation(0, 0, math32.Pi+side*0.12))
		p.sub(tail)
	}
	return p.done()
}

func hairPonytail(in Input) (*scene.Node, error) {
	root, strand, err := hairColors(in.Config.Hair)
	if err != nil {
		return nil, err
	}
	f := in.Frame
	r, hc := f.HeadRadius, f.HeadCenter
	p := newParts(avatar.StylePonytail)
	hairCap(p, f, root)
	g, err := geom.Sphere(r*0.14, strandSegs, 6)
	p.add("tie", g, err, hairTag("tie", root), scene.At(0, hc.Y+r*0.3, -r*1.05))
	length := r * 2.8
	g, err = geom.Cone(length, 0, r*0.32, strandSegs)
	p.add("strand", g, err, hairTag("strand", strand),
		scene.At(0, hc.Y+r*0.3-length/2, -r*1.25).WithRotation(math32.Pi+0.25, 0, 0))
	return p.done()
}

func hairBob(in Input) (*scene.Node, error) {
	root, strand, err := hairColors(in.Config.Hair)
	if err != nil {
		return nil, err
	}
	f := in.Frame
	r, hc := f.HeadRadius, f.HeadCenter
	p := newParts(avatar.StyleBob)
	hairCap(p, f, root)
	g, err := geom.Box(r*2.2, r*1.3, r*0.6)
	p.add("back", g, err, hairTag("back", strand), scene.At(0, hc.Y-r*0.35, -r*0.55))
	for _, side := range []float32{-1, 1} {
		g, err = geom.Box(r*0.35, r*1.3, r*1.2)
		p.add(sideName("side", side), g, err, hairTag("side", strand),
			scene.At(side*r*1.0, hc.Y-r*0.35, 0))
	}
	return p.done()
}

// hairMessy scatters spikes over the head. Count, length, placement and tilt come
// from the per-call RNG, so two builds of the same config differ.
func hairMessy(in Input) (*scene.Node, error) {
	root, strand, err := hairColors(in.Config.Hair)
	if err != nil {
		return nil, err
	}
	f := in.Frame
	r, hc := f.HeadRadius, f.HeadCenter
	p := newParts(avatar.StyleMessy)
	hairCap(p, f, root)
	n := 6 + in.intN(4)
	for i := 0; i < n; i++ {
		// outer group yaws around the head, inner spike tilts away from the crown
		yaw := newParts("spike-" + strconv.Itoa(i))
		yaw.group.Transform = scene.At(hc.X, hc.Y, hc.Z).WithRotation(0, in.between(0, 2*math32.Pi), 0)
		tilt := in.between(0.2, 1.2)
		length := r * in.between(0.5, 1.0)
		g, err := geom.Cone(length, 0, r*in.between(0.14, 0.22), 6+in.intN(6))
		yaw.add("strand", g, err, hairTag("spike", strand),
			scene.At(0, math32.Cos(tilt)*r, math32.Sin(tilt)*r).WithRotation(tilt, 0, in.between(-0.3, 0.3)))
		p.sub(yaw)
	}
	return p.done()
}

func sideName(base string, side float32) string {
	if side < 0 {
		return base + "-left"
	}
	return base + "-right"
}
