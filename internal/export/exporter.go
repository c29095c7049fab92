package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stampLayout is embedded in every artifact name.
const stampLayout = "20060102-150405"

// ConfigFilename returns the config artifact name for t.
func ConfigFilename(t time.Time) string {
	return "avatar-config-" + t.Format(stampLayout) + ".json"
}

// SceneFilename returns the glb artifact name for t.
func SceneFilename(t time.Time) string {
	return "avatar-" + t.Format(stampLayout) + ".glb"
}

// BundleFilename returns the zip artifact name for t.
func BundleFilename(t time.Time) string {
	return "avatar-bundle-" + t.Format(stampLayout) + ".zip"
}

// ThumbnailFilename returns the preview image name for t.
func ThumbnailFilename(t time.Time) string {
	return "avatar-thumb-" + t.Format(stampLayout) + ".png"
}

// Job is an export running on its own goroutine. It cannot be cancelled; Wait only
// stops waiting.
type Job struct {
	ID   string
	Kind string
	done chan struct{}
	path string
	err  error
}

// Done is closed when the job finishes.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx is done, and returns the written path.
func (j *Job) Wait(ctx context.Context) (string, error) {
	select {
	case <-j.done:
		return j.path, j.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Exporter writes timestamped artifacts into a directory.
type Exporter struct {
	dir string
	now func() time.Time
	log *zap.Logger
	wg  sync.WaitGroup
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithClock replaces time.Now for artifact names and bundle stamps.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

// WithExportLogger sets the logger.
func WithExportLogger(log *zap.Logger) ExporterOption {
	return func(e *Exporter) {
		if log != nil {
			e.log = log
		}
	}
}

// NewExporter returns an exporter writing into dir, which is created on first write.
func NewExporter(dir string, opts ...ExporterOption) *Exporter {
	e := &Exporter{dir: dir, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// ExportConfig writes the canonical config text synchronously and returns its path.
func (e *Exporter) ExportConfig(cfg avatar.Config) (string, error) {
	data, err := EncodeConfig(cfg)
	if err != nil {
		return "", err
	}
	path, err := e.write(ConfigFilename(e.now()), data)
	if err != nil {
		return "", fmt.Errorf("export config: %w", err)
	}
	e.log.Info("config exported", zap.String("path", path))
	return path, nil
}

// ExportScene snapshots root and encodes it as glb in the background.
func (e *Exporter) ExportScene(root *scene.Node) *Job {
	snap := snapshot(root)
	stamp := e.now()
	return e.start("scene", func() (string, error) {
		if snap == nil {
			return "", fmt.Errorf("export scene: %w", ErrEmptyScene)
		}
		data, err := EncodeScene(snap)
		if err != nil {
			return "", err
		}
		return e.write(SceneFilename(stamp), data)
	})
}

// ExportBundle snapshots cfg and root and writes the zip bundle in the background.
func (e *Exporter) ExportBundle(cfg avatar.Config, root *scene.Node) *Job {
	cfgSnap := avatar.Clone(cfg)
	snap := snapshot(root)
	stamp := e.now()
	return e.start("bundle", func() (string, error) {
		if snap == nil {
			return "", fmt.Errorf("export bundle: %w", ErrEmptyScene)
		}
		data, err := EncodeBundle(cfgSnap, snap, stamp)
		if err != nil {
			return "", err
		}
		return e.write(BundleFilename(stamp), data)
	})
}

// Wait blocks until every started job has finished.
func (e *Exporter) Wait() {
	e.wg.Wait()
}

func snapshot(root *scene.Node) *scene.Node {
	if root == nil {
		return nil
	}
	return root.Clone()
}

func (e *Exporter) start(kind string, run func() (string, error)) *Job {
	j := &Job{ID: uuid.NewString(), Kind: kind, done: make(chan struct{})}
	log := e.log.With(zap.String("job", j.ID), zap.String("kind", kind))
	log.Debug("export started")
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer close(j.done)
		j.path, j.err = run()
		if j.err != nil {
			log.Error("export failed", zap.Error(j.err))
			return
		}
		log.Info("export finished", zap.String("path", j.path))
	}()
	return j
}

// write stores data under name, adding a numeric suffix instead of overwriting.
func (e *Exporter) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", err
	}
	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = base + "-" + strconv.Itoa(i) + ext
		}
		path := filepath.Join(e.dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}
}
