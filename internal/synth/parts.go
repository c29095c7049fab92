package synth

import (
	"fmt"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"
)

// parts collects leaves into a group and remembers the first construction error.
type parts struct {
	group *scene.Node
	err   error
}

func newParts(name string) *parts {
	return &parts{group: scene.NewGroup(name)}
}

// add appends a leaf built from g. When err (or an earlier error) is set, nothing is added.
func (p *parts) add(name string, g *geom.Geometry, err error, tag scene.Tag, tr scene.Transform) *scene.Node {
	if p.err != nil {
		return nil
	}
	if err != nil {
		p.err = fmt.Errorf("%s/%s: %w", p.group.Name, name, err)
		return nil
	}
	n := scene.NewMesh(name, g, tag)
	n.Transform = tr
	p.group.Add(n)
	return n
}

// sub attaches an already built group, propagating its error.
func (p *parts) sub(child *parts) {
	if p.err != nil {
		return
	}
	if child.err != nil {
		p.err = child.err
		return
	}
	p.group.Add(child.group)
}

func (p *parts) done() (*scene.Node, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.group, nil
}

// hexColor validates s and returns it normalized to "#rrggbb".
func hexColor(s string) (string, error) {
	c, err := avatar.ParseColor(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// blendColor mixes a and b in Lab space; t=0 is a, t=1 is b.
func blendColor(a, b string, t float64) (string, error) {
	ca, err := avatar.ParseColor(a)
	if err != nil {
		return "", err
	}
	cb, err := avatar.ParseColor(b)
	if err != nil {
		return "", err
	}
	return ca.BlendLab(cb, t).Clamped().Hex(), nil
}
