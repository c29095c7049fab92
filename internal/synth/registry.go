package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/geom"
	"avatar-studio/internal/scene"

	"go.uber.org/zap"
)

// ErrUnknownStyle is logged when a registry has no generator for an id.
var ErrUnknownStyle = errors.New("synth: unknown style")

// fallbackSize is the edge length of the placeholder box.
const fallbackSize = 0.1

// Input is what a generator sees: the whole configuration (read-only), the derived
// body frame, the accessory record for accessory generators, and the per-call RNG.
type Input struct {
	Config    avatar.Config
	Frame     Frame
	Accessory avatar.Accessory
	Rand      *rand.Rand
}

func (in Input) float() float32 {
	if in.Rand == nil {
		return rand.Float32()
	}
	return in.Rand.Float32()
}

func (in Input) intN(n int) int {
	if in.Rand == nil {
		return rand.IntN(n)
	}
	return in.Rand.IntN(n)
}

// between returns a value uniformly drawn from [lo, hi).
func (in Input) between(lo, hi float32) float32 {
	return lo + in.float()*(hi-lo)
}

// Generator turns an Input into a node (a leaf or a group of leaves).
type Generator func(in Input) (*scene.Node, error)

// Registry maps ids to generators for one family (hair, outfit, accessory). Every
// registered generator is wrapped with Guard, so Build always returns a node.
type Registry struct {
	family string
	role   scene.Role
	log    *zap.Logger
	gens   map[string]Generator
	// warnUnknown logs lookups that miss; accessories fall back silently.
	warnUnknown bool
}

// NewRegistry returns an empty registry whose fallbacks are tagged with role.
func NewRegistry(family string, role scene.Role, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{family: family, role: role, log: log, gens: make(map[string]Generator), warnUnknown: true}
}

// Register adds or replaces the generator for id.
func (r *Registry) Register(id string, gen Generator) {
	r.gens[id] = Guard(r.family, id, r.role, r.log, gen)
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.gens[id]
	return ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.gens))
	for id := range r.gens {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Build runs the generator for id. Unknown ids produce the fallback primitive.
func (r *Registry) Build(id string, in Input) *scene.Node {
	gen, ok := r.gens[id]
	if !ok {
		if r.warnUnknown {
			r.log.Warn("no generator registered, using fallback",
				zap.String("family", r.family), zap.String("id", id), zap.Error(ErrUnknownStyle))
		} else {
			r.log.Debug("unrecognized id, using fallback", zap.String("family", r.family), zap.String("id", id))
		}
		return Fallback(r.role, id)
	}
	n, _ := gen(in)
	return n
}

// Guard wraps gen so that a returned error, a nil node or a panic is replaced by the
// fallback primitive and logged as a warning. The wrapped generator never fails.
func Guard(family, id string, role scene.Role, log *zap.Logger, gen Generator) Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return func(in Input) (node *scene.Node, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Warn("generator panicked, using fallback",
					zap.String("family", family), zap.String("id", id), zap.Any("panic", rec))
				node, err = Fallback(role, id), nil
			}
		}()
		n, genErr := gen(in)
		if genErr != nil || n == nil {
			if genErr == nil {
				genErr = fmt.Errorf("%s %q: generator returned nothing", family, id)
			}
			log.Warn("generator failed, using fallback",
				zap.String("family", family), zap.String("id", id), zap.Error(genErr))
			return Fallback(role, id), nil
		}
		return n, nil
	}
}

// Fallback returns the placeholder: a small box at the origin, tagged with role so the
// material pass still colors it.
func Fallback(role scene.Role, id string) *scene.Node {
	g, err := geom.Box(fallbackSize, fallbackSize, fallbackSize)
	if err != nil {
		panic(err) // constant dimensions
	}
	return scene.NewMesh("fallback-"+id, g, scene.Tag{Role: role, Part: "fallback", Fallback: true})
}
