// Package assembler owns the character root. Every configuration change rebuilds the
// whole subtree, uploads it, and only then swaps it in for the previous root, which is
// detached and disposed.
package assembler

import (
	"errors"
	"fmt"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"
	"avatar-studio/internal/synth"
	"avatar-studio/internal/toon"

	"go.uber.org/zap"
)

// RootName is the name of every character root.
const RootName = "character"

// ErrClosed is returned by Assemble after Close.
var ErrClosed = errors.New("assembler: closed")

// Uploader moves a freshly built tree to the GPU, attaching a scene.Resource to every
// mesh and material it creates. A failed upload may leave some handles attached; the
// assembler releases them by disposing the tree.
type Uploader interface {
	Upload(root *scene.Node) error
}

// Observer is called with the new root after every successful rebuild.
type Observer func(root *scene.Node)

// Assembler builds character roots and keeps the current one attached to its stage.
// It is not safe for concurrent use; the render loop is its only caller.
type Assembler struct {
	synth     *synth.Synthesizer
	uploader  Uploader
	log       *zap.Logger
	outline   bool
	width     float32
	color     string
	stage     *scene.Node
	current   *scene.Node
	observers []Observer
	closed    bool
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithUploader sets the GPU backend. Without one, trees stay CPU-side.
func WithUploader(u Uploader) Option {
	return func(a *Assembler) { a.uploader = u }
}

// WithOutline enables inverted-hull outlines of the given width and color.
func WithOutline(width float32, color string) Option {
	return func(a *Assembler) {
		a.outline = true
		a.width = width
		a.color = color
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Assembler) {
		if log != nil {
			a.log = log
		}
	}
}

// New returns an assembler with an empty stage. A nil synthesizer uses synth.New().
func New(s *synth.Synthesizer, opts ...Option) *Assembler {
	if s == nil {
		s = synth.New()
	}
	a := &Assembler{
		synth: s,
		log:   zap.NewNop(),
		width: toon.DefaultWidth,
		color: toon.DefaultColor,
		stage: scene.NewGroup("stage"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetOutline toggles outlines for subsequent rebuilds.
func (a *Assembler) SetOutline(enabled bool) {
	a.outline = enabled
}

// SetOutlineStyle changes the outline width and color for subsequent rebuilds.
func (a *Assembler) SetOutlineStyle(width float32, color string) {
	a.width = width
	a.color = color
}

// Outline reports whether outlines are built.
func (a *Assembler) Outline() bool {
	return a.outline
}

// Build synthesizes a detached, materialized character root for cfg. Nothing is
// uploaded and the stage is not touched.
func (a *Assembler) Build(cfg avatar.Config) *scene.Node {
	root := scene.NewGroup(RootName)
	root.Add(a.synth.Parts(cfg)...)
	toon.ApplyMaterials(root, toon.PaletteFrom(cfg), a.log)
	if a.outline {
		out, err := toon.BuildOutline(root, a.width, a.color)
		if err != nil {
			a.log.Warn("outline skipped", zap.Error(err))
			out = scene.NewGroup("outline")
		}
		root.Add(out)
	} else {
		root.Add(scene.NewGroup("outline"))
	}
	return root
}

// Assemble builds and uploads a new root for cfg, then replaces the current root with it.
// On failure the new tree is released and the previous root stays attached.
func (a *Assembler) Assemble(cfg avatar.Config) (*scene.Node, error) {
	if a.closed {
		return nil, ErrClosed
	}
	root := a.Build(cfg)
	if a.uploader != nil {
		if err := a.uploader.Upload(root); err != nil {
			released := root.Dispose()
			a.log.Error("upload failed, keeping previous character",
				zap.Int("released", released), zap.Error(err))
			return nil, fmt.Errorf("assemble: upload: %w", err)
		}
	}
	prev := a.current
	if prev != nil {
		a.stage.Remove(prev)
		released := prev.Dispose()
		a.log.Debug("previous character disposed", zap.Int("meshes", released))
	}
	a.stage.Add(root)
	a.current = root
	a.log.Info("character assembled",
		zap.Int("meshes", len(root.Leaves())), zap.Int("vertices", root.VertexCount()))
	for _, fn := range a.observers {
		fn(root)
	}
	return root, nil
}

// Current returns the attached root, or nil before the first successful Assemble.
// Callers must not mutate it.
func (a *Assembler) Current() *scene.Node {
	return a.current
}

// Stage returns the group the root is attached to.
func (a *Assembler) Stage() *scene.Node {
	return a.stage
}

// Observe registers fn to be called after every rebuild.
func (a *Assembler) Observe(fn Observer) {
	a.observers = append(a.observers, fn)
}

// Close detaches and disposes the current root. Further Assemble calls fail.
func (a *Assembler) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.current != nil {
		a.stage.Remove(a.current)
		a.current.Dispose()
		a.current = nil
	}
	a.observers = nil
}
