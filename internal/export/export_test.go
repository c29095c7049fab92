package export

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"avatar-studio/internal/archive"
	"avatar-studio/internal/assembler"
	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"

	"github.com/google/go-cmp/cmp"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixed = time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)

func character(t *testing.T, cfg avatar.Config) *scene.Node {
	t.Helper()
	a := assembler.New(nil, assembler.WithOutline(0.03, "#000000"))
	root, err := a.Assemble(cfg)
	require.NoError(t, err)
	return root
}

func TestConfigRoundTrip(t *testing.T) {
	cfgs := []avatar.Config{avatar.Default()}
	for i := 0; i < 50; i++ {
		cfgs = append(cfgs, avatar.Randomize())
	}
	withNil := avatar.Default()
	withNil.Accessories = nil
	cfgs = append(cfgs, withNil)

	for _, c := range cfgs {
		data, err := EncodeConfig(c)
		require.NoError(t, err)
		got, err := DecodeConfig(data)
		require.NoError(t, err)
		if diff := cmp.Diff(c, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestEncodeConfigIsCanonical(t *testing.T) {
	data, err := EncodeConfig(avatar.Default())
	require.NoError(t, err)
	s := string(data)
	assert.True(t, s[len(s)-1] == '\n')
	assert.Contains(t, s, "\n  \"faceId\": 0,\n")
	assert.Less(t, bytes.Index(data, []byte(`"gender"`)), bytes.Index(data, []byte(`"skinTone"`)))

	again, err := EncodeConfig(avatar.Default())
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestDecodeConfigRejectsInvalid(t *testing.T) {
	_, err := DecodeConfig([]byte(`{"gender":"robot"}`))
	assert.ErrorIs(t, err, avatar.ErrInvalidConfig)
}

func TestEncodeSceneDecodes(t *testing.T) {
	root := character(t, avatar.Default())
	data, err := EncodeScene(root)
	require.NoError(t, err)
	assert.Equal(t, "glTF", string(data[:4]))

	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc))
	leaves := len(root.Leaves())
	assert.Len(t, doc.Meshes, leaves)
	assert.Len(t, doc.Materials, leaves)
	assert.Len(t, doc.Buffers, 1)
	assert.Empty(t, doc.ExtensionsUsed)

	var count int
	root.Walk(func(*scene.Node) bool { count++; return true })
	assert.Len(t, doc.Nodes, count)
	require.Len(t, doc.Scenes, 1)
	require.Len(t, doc.Scenes[0].Nodes, 1)
	assert.Equal(t, assembler.RootName, doc.Nodes[doc.Scenes[0].Nodes[0]].Name)
}

func TestIndexWidthAvoidsRestartValue(t *testing.T) {
	doc := &gltf.Document{}
	short := writeIndices(doc, math.MaxUint16-1, []uint32{0, 1, math.MaxUint16 - 2})
	assert.Equal(t, gltf.ComponentUshort, doc.Accessors[short].ComponentType)

	wide := writeIndices(doc, math.MaxUint16, []uint32{0, 1, math.MaxUint16 - 1})
	assert.Equal(t, gltf.ComponentUint, doc.Accessors[wide].ComponentType)
}

func TestEncodeSceneEmpty(t *testing.T) {
	_, err := EncodeScene(nil)
	assert.ErrorIs(t, err, ErrEmptyScene)
	_, err = EncodeScene(scene.NewGroup("character"))
	assert.ErrorIs(t, err, ErrEmptyScene)
}

func TestBundleHasExactlyTwoEntries(t *testing.T) {
	cfg := avatar.Default()
	data, err := EncodeBundle(cfg, character(t, cfg), fixed)
	require.NoError(t, err)
	entries, err := archive.ReadEntries(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ConfigEntry, entries[0].Name)
	assert.Equal(t, SceneEntry, entries[1].Name)

	got, err := DecodeConfig(entries[0].Data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, "glTF", string(entries[1].Data[:4]))
}

func TestBundleFailsWithoutScene(t *testing.T) {
	_, err := EncodeBundle(avatar.Default(), nil, fixed)
	assert.ErrorIs(t, err, ErrEmptyScene)
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "avatar-config-20250309-140507.json", ConfigFilename(fixed))
	assert.Equal(t, "avatar-20250309-140507.glb", SceneFilename(fixed))
	assert.Equal(t, "avatar-bundle-20250309-140507.zip", BundleFilename(fixed))
	assert.Equal(t, "avatar-thumb-20250309-140507.png", ThumbnailFilename(fixed))
}

func TestExporterNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, WithClock(func() time.Time { return fixed }))
	p1, err := e.ExportConfig(avatar.Default())
	require.NoError(t, err)
	p2, err := e.ExportConfig(avatar.Randomize())
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, filepath.Join(dir, "avatar-config-20250309-140507.json"), p1)
	assert.Equal(t, filepath.Join(dir, "avatar-config-20250309-140507-1.json"), p2)
}

func TestExportJobsUseSnapshots(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, WithClock(func() time.Time { return fixed }))
	cfg := avatar.Default()
	root := character(t, cfg)
	leaves := len(root.Leaves())

	sceneJob := e.ExportScene(root)
	bundle := e.ExportBundle(cfg, root)
	// the live root is replaced while the jobs run
	root.Dispose()
	cfg.Hair.Style = avatar.StyleMessy

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	scenePath, err := sceneJob.Wait(ctx)
	require.NoError(t, err)
	bundlePath, err := bundle.Wait(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, sceneJob.ID, bundle.ID)

	data, err := os.ReadFile(scenePath)
	require.NoError(t, err)
	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc))
	assert.Len(t, doc.Meshes, leaves)

	zipped, err := os.ReadFile(bundlePath)
	require.NoError(t, err)
	entries, err := archive.ReadEntries(zipped)
	require.NoError(t, err)
	got, err := DecodeConfig(entries[0].Data)
	require.NoError(t, err)
	assert.Equal(t, avatar.StyleLong, got.Hair.Style)
	e.Wait()
}

func TestExportSceneFailureSurfacesThroughWait(t *testing.T) {
	e := NewExporter(t.TempDir())
	job := e.ExportScene(nil)
	_, err := job.Wait(context.Background())
	assert.ErrorIs(t, err, ErrEmptyScene)
	<-job.Done()
}

func TestWaitStopsOnContext(t *testing.T) {
	j := &Job{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := j.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeClipboard struct {
	text string
	err  error
	boom bool
}

func (f *fakeClipboard) SetText(s string) error {
	if f.boom {
		panic("no display")
	}
	f.text = s
	return f.err
}

func TestCopyConfigToClipboard(t *testing.T) {
	cb := &fakeClipboard{}
	assert.True(t, CopyConfigToClipboard(cb, avatar.Default(), nil))
	want, err := EncodeConfig(avatar.Default())
	require.NoError(t, err)
	assert.Equal(t, string(want), cb.text)

	assert.False(t, CopyConfigToClipboard(&fakeClipboard{err: errors.New("denied")}, avatar.Default(), nil))
	assert.False(t, CopyConfigToClipboard(&fakeClipboard{boom: true}, avatar.Default(), nil))
	assert.False(t, CopyConfigToClipboard(nil, avatar.Default(), nil))
}
