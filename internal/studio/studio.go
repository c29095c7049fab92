// Package studio is the boundary between the viewer (or any UI) and the avatar core.
// It owns the current configuration, applies edits by cloning then patching, rebuilds
// the character through the assembler, drives idle motion and tracks export jobs.
// A Studio is not safe for concurrent use; call it from the render goroutine.
package studio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"avatar-studio/internal/assembler"
	"avatar-studio/internal/avatar"
	"avatar-studio/internal/commands"
	"avatar-studio/internal/export"
	"avatar-studio/internal/motion"
	"avatar-studio/internal/scene"
	"avatar-studio/internal/synth"
	"avatar-studio/internal/thumbnail"
	"avatar-studio/internal/viewerconfig"

	"go.uber.org/zap"
)

// ErrNoCapture is returned by Thumbnail when no frame source is configured.
var ErrNoCapture = errors.New("studio: frame capture unavailable")

// Stats summarize the current character for overlays.
type Stats struct {
	Meshes   int
	Vertices int
	Pending  int
}

// Studio holds the live character and everything that acts on it.
type Studio struct {
	prefs     viewerconfig.Prefs
	prefsPath string
	cfg       avatar.Config
	synth     *synth.Synthesizer
	uploader  assembler.Uploader
	asm       *assembler.Assembler
	anim      *motion.Animator
	exp       *export.Exporter
	clip      export.Clipboard
	capture   func() image.Image
	jobs      []*export.Job
	reg       *commands.Registry
	log       *zap.Logger
	now       func() time.Time
}

// Option configures a Studio.
type Option func(*Studio)

// WithUploader sets the GPU backend handed to the assembler.
func WithUploader(u assembler.Uploader) Option {
	return func(s *Studio) { s.uploader = u }
}

// WithSynthesizer replaces the default synthesizer (e.g. to seed messy hair).
func WithSynthesizer(sy *synth.Synthesizer) Option {
	return func(s *Studio) { s.synth = sy }
}

// WithClipboard sets the clipboard used by CopyConfig.
func WithClipboard(cb export.Clipboard) Option {
	return func(s *Studio) { s.clip = cb }
}

// WithCapture sets the frame source used by Thumbnail.
func WithCapture(fn func() image.Image) Option {
	return func(s *Studio) { s.capture = fn }
}

// WithPrefsPath sets where SavePrefs writes.
func WithPrefsPath(path string) Option {
	return func(s *Studio) { s.prefsPath = path }
}

// WithClock replaces time.Now for artifact names.
func WithClock(now func() time.Time) Option {
	return func(s *Studio) { s.now = now }
}

// WithLogger sets the logger shared with the assembler and exporter.
func WithLogger(log *zap.Logger) Option {
	return func(s *Studio) {
		if log != nil {
			s.log = log
		}
	}
}

// New returns a studio configured from prefs. Nothing is built until Start.
func New(prefs viewerconfig.Prefs, opts ...Option) *Studio {
	s := &Studio{
		prefs: prefs,
		cfg:   avatar.Default(),
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.synth == nil {
		s.synth = synth.New(synth.WithLogger(s.log))
	}
	asmOpts := []assembler.Option{
		assembler.WithLogger(s.log),
		assembler.WithOutline(prefs.Outline.Width, prefs.Outline.Color),
	}
	if s.uploader != nil {
		asmOpts = append(asmOpts, assembler.WithUploader(s.uploader))
	}
	s.asm = assembler.New(s.synth, asmOpts...)
	s.asm.SetOutline(prefs.Outline.Enabled)

	s.anim = motion.NewAnimator(prefs.SoftBody.Enabled)
	s.anim.Params = motion.Params{
		Stiffness:       prefs.SoftBody.Stiffness,
		Damping:         prefs.SoftBody.Damping,
		MaxDisplacement: prefs.SoftBody.MaxDisplacement,
	}
	// a fresh root starts from the animator's pose, not from rest
	s.asm.Observe(func(root *scene.Node) { motion.Apply(root, s.anim.Pose()) })

	s.exp = export.NewExporter(prefs.ExportDir,
		export.WithClock(s.now), export.WithExportLogger(s.log))
	s.reg = commands.NewRegistry()
	s.registerCommands()
	return s
}

// Start builds the first character. An invalid cfg is replaced by the default one and the
// returned error says why; the studio is usable either way unless the build itself failed.
func (s *Studio) Start(cfg avatar.Config) error {
	safe, invalid := avatar.Sanitize(cfg)
	if invalid != nil {
		s.log.Warn("invalid starting config, using default", zap.Error(invalid))
	}
	if err := s.Apply(safe); err != nil {
		return err
	}
	return invalid
}

// Config returns a copy of the current configuration.
func (s *Studio) Config() avatar.Config {
	return avatar.Clone(s.cfg)
}

// Root returns the attached character root, or nil before Start.
func (s *Studio) Root() *scene.Node {
	return s.asm.Current()
}

// Stage returns the group the character is attached to.
func (s *Studio) Stage() *scene.Node {
	return s.asm.Stage()
}

// Prefs returns the current viewer preferences.
func (s *Studio) Prefs() viewerconfig.Prefs {
	return s.prefs
}

// Commands returns the console command registry.
func (s *Studio) Commands() *commands.Registry {
	return s.reg
}

// Apply validates cfg and rebuilds the character from a private copy of it. On any
// failure the previous configuration and character stay in place.
func (s *Studio) Apply(cfg avatar.Config) error {
	if !avatar.Validate(cfg) {
		return avatar.ErrInvalidConfig
	}
	next := avatar.Clone(cfg)
	if _, err := s.asm.Assemble(next); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

// Edit clones the current configuration, lets patch modify the clone and applies it.
func (s *Studio) Edit(patch func(c *avatar.Config)) error {
	next := avatar.Clone(s.cfg)
	patch(&next)
	return s.Apply(next)
}

// Randomize applies a random configuration.
func (s *Studio) Randomize() error {
	return s.Apply(avatar.Randomize())
}

// Reset applies the default configuration.
func (s *Studio) Reset() error {
	return s.Apply(avatar.Default())
}

// LoadFile applies the configuration stored at path (JSON or YAML).
func (s *Studio) LoadFile(path string) error {
	cfg, err := avatar.Load(path)
	if err != nil {
		return err
	}
	if err := s.Apply(cfg); err != nil {
		return err
	}
	s.log.Info("config loaded", zap.String("path", path))
	return nil
}

// SetOutline changes the outline settings and rebuilds the character.
func (s *Studio) SetOutline(enabled bool, width float32, color string) error {
	if !avatar.ValidColor(color) {
		return fmt.Errorf("outline color %q: %w", color, avatar.ErrInvalidConfig)
	}
	s.prefs.Outline = viewerconfig.OutlinePrefs{Enabled: enabled, Width: width, Color: color}
	s.asm.SetOutline(enabled)
	s.asm.SetOutlineStyle(width, color)
	if s.Root() == nil {
		return nil
	}
	return s.Apply(s.cfg)
}

// SetSoftBody switches between the periodic idle and the damped model.
func (s *Studio) SetSoftBody(enabled bool) {
	s.prefs.SoftBody.Enabled = enabled
	s.anim.Soft = enabled
}

// SetGridVisible records the grid preference; the viewer reads it back through Prefs.
func (s *Studio) SetGridVisible(visible bool) {
	s.prefs.GridVisible = visible
}

// SetOverlay records the debug overlay preferences.
func (s *Studio) SetOverlay(fps, mem, stats bool) {
	s.prefs.ShowFPS = fps
	s.prefs.ShowMemAlloc = mem
	s.prefs.ShowStats = stats
}

// Tick advances idle motion by dt seconds and reports finished export jobs.
// Call once per rendered frame.
func (s *Studio) Tick(dt float32) motion.Pose {
	s.poll()
	return s.anim.Step(s.Root(), dt)
}

// ExportConfig writes the configuration file synchronously.
func (s *Studio) ExportConfig() (string, error) {
	return s.exp.ExportConfig(s.cfg)
}

// ExportScene starts a glb export of the current character.
func (s *Studio) ExportScene() *export.Job {
	return s.track(s.exp.ExportScene(s.Root()))
}

// ExportBundle starts a zip export of the configuration and the character.
func (s *Studio) ExportBundle() *export.Job {
	return s.track(s.exp.ExportBundle(s.cfg, s.Root()))
}

// CopyConfig puts the configuration text on the clipboard.
func (s *Studio) CopyConfig() bool {
	ok := export.CopyConfigToClipboard(s.clip, s.cfg, s.log)
	if ok {
		s.log.Info("config copied to clipboard")
	}
	return ok
}

// Thumbnail captures the current frame and saves a square preview next to the exports.
func (s *Studio) Thumbnail() (string, error) {
	if s.capture == nil {
		return "", ErrNoCapture
	}
	path := filepath.Join(s.exp.Dir(), export.ThumbnailFilename(s.now()))
	if err := thumbnail.Save(path, s.capture(), thumbnail.DefaultSize); err != nil {
		return "", err
	}
	s.log.Info("thumbnail saved", zap.String("path", path))
	return path, nil
}

// SavePrefs persists the viewer preferences.
func (s *Studio) SavePrefs() error {
	if err := viewerconfig.Save(s.prefsPath, s.prefs); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// Stats reports the size of the current character and the number of running exports.
func (s *Studio) Stats() Stats {
	st := Stats{Pending: len(s.jobs)}
	if root := s.Root(); root != nil {
		st.Meshes = len(root.Leaves())
		st.Vertices = root.VertexCount()
	}
	return st
}

// Submit handles one console line: "cmd ..." lines run a command, anything else is
// logged as-is. Command errors are logged and returned.
func (s *Studio) Submit(line string) error {
	args, ok := commands.Parse(line)
	if !ok {
		s.log.Info(line)
		return nil
	}
	if err := s.reg.Execute(args); err != nil {
		s.log.Warn("command failed", zap.String("line", line), zap.Error(err))
		return err
	}
	return nil
}

// Close waits for running exports, then disposes the character.
func (s *Studio) Close() {
	s.exp.Wait()
	s.poll()
	s.asm.Close()
}

func (s *Studio) track(j *export.Job) *export.Job {
	s.jobs = append(s.jobs, j)
	return j
}

// poll logs and forgets every finished job without blocking.
func (s *Studio) poll() {
	kept := s.jobs[:0]
	for _, j := range s.jobs {
		select {
		case <-j.Done():
			path, err := j.Wait(context.Background())
			if err != nil {
				s.log.Error("export not saved", zap.String("kind", j.Kind), zap.Error(err))
			} else {
				s.log.Info("export saved", zap.String("kind", j.Kind), zap.String("path", path))
			}
		default:
			kept = append(kept, j)
		}
	}
	clear(s.jobs[len(kept):])
	s.jobs = kept
}
