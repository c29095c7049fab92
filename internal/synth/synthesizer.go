package synth

import (
	"fmt"
	"math/rand/v2"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"

	"go.uber.org/zap"
)

// Synthesizer turns configurations into untextured part groups. It owns the hair, outfit
// and accessory registries and the guarded body generator.
type Synthesizer struct {
	log         *zap.Logger
	rng         *rand.Rand
	body        Generator
	hair        *Registry
	outfits     *Registry
	accessories *Registry
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(log *zap.Logger) Option {
	return func(s *Synthesizer) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRand fixes the random source used by stochastic generators (messy hair). Without it
// every call draws from the global source.
func WithRand(r *rand.Rand) Option {
	return func(s *Synthesizer) { s.rng = r }
}

// New returns a synthesizer with every built-in generator registered.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.body = Guard("body", "body", scene.RoleBody, s.log, Body)
	s.hair = NewRegistry("hair", scene.RoleHair, s.log)
	registerHair(s.hair)
	s.outfits = NewRegistry("outfit", scene.RoleOutfit, s.log)
	registerOutfits(s.outfits)
	s.accessories = NewRegistry("accessory", scene.RoleAccessory, s.log)
	s.accessories.warnUnknown = false
	registerAccessories(s.accessories)
	return s
}

// Hair returns the hair registry so callers can add styles.
func (s *Synthesizer) Hair() *Registry { return s.hair }

// Outfits returns the outfit registry.
func (s *Synthesizer) Outfits() *Registry { return s.outfits }

// Accessories returns the accessory registry.
func (s *Synthesizer) Accessories() *Registry { return s.accessories }

func (s *Synthesizer) input(cfg avatar.Config) Input {
	return Input{Config: cfg, Frame: NewFrame(cfg), Rand: s.rng}
}

// Body builds the "body" group.
func (s *Synthesizer) Body(cfg avatar.Config) *scene.Node {
	n, _ := s.body(s.input(cfg))
	return wrap("body", n)
}

// HairFor builds the "hair" group for cfg.Hair.Style.
func (s *Synthesizer) HairFor(cfg avatar.Config) *scene.Node {
	return wrap("hair", s.hair.Build(cfg.Hair.Style, s.input(cfg)))
}

// Outfit builds the "outfit" group for cfg.Outfit.ID.
func (s *Synthesizer) Outfit(cfg avatar.Config) *scene.Node {
	return wrap("outfit", s.outfits.Build(cfg.Outfit.ID, s.input(cfg)))
}

// Accessory builds the group for cfg.Accessories[i]. The group sits at the accessory's
// anchor and holds a "mount" group carrying the record's position, rotation and uniform
// scale verbatim, so they act about the attachment point. The generated content, built
// relative to the anchor, is the mount's only child.
func (s *Synthesizer) Accessory(cfg avatar.Config, i int) *scene.Node {
	rec := cfg.Accessories[i]
	in := s.input(cfg)
	in.Accessory = rec
	mount := wrap("mount", s.accessories.Build(rec.ID, in))
	sc := float32(rec.Scale)
	mount.Transform = scene.At(float32(rec.Pos[0]), float32(rec.Pos[1]), float32(rec.Pos[2])).
		WithRotation(float32(rec.Rot[0]), float32(rec.Rot[1]), float32(rec.Rot[2])).
		WithScale(sc, sc, sc)
	g := wrap(fmt.Sprintf("accessory-%d", i), mount)
	anchor := anchorFor(rec.ID, in.Frame)
	g.Transform = scene.At(anchor.X, anchor.Y, anchor.Z)
	return g
}

// Parts builds body, hair, outfit and one group per accessory, in that order.
func (s *Synthesizer) Parts(cfg avatar.Config) []*scene.Node {
	out := []*scene.Node{s.Body(cfg), s.HairFor(cfg), s.Outfit(cfg)}
	for i := range cfg.Accessories {
		out = append(out, s.Accessory(cfg, i))
	}
	return out
}

func wrap(name string, content *scene.Node) *scene.Node {
	g := scene.NewGroup(name)
	g.Add(content)
	return g
}
