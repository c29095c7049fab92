package assembler

import (
	"errors"
	"testing"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"
	"avatar-studio/internal/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handle counts releases of a fake GPU resource.
type handle struct{ released *int }

func (h handle) Release() { *h.released++ }

type fakeUploader struct {
	released int
	uploaded int
	fail     error
}

func (u *fakeUploader) Upload(root *scene.Node) error {
	for _, l := range root.Leaves() {
		l.Mesh.GPU = handle{&u.released}
		u.uploaded++
	}
	return u.fail
}

func childNames(n *scene.Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Name)
	}
	return out
}

func TestRootShape(t *testing.T) {
	cfg := avatar.Default()
	cfg.Accessories = []avatar.Accessory{
		{ID: avatar.AccessoryHornsSmall, Scale: 1},
		{ID: avatar.AccessoryMask, Scale: 1},
	}
	a := New(synth.New(), WithOutline(0.03, "#000000"))
	root, err := a.Assemble(cfg)
	require.NoError(t, err)
	assert.Equal(t, RootName, root.Name)
	assert.Equal(t, []string{"body", "hair", "outfit", "accessory-0", "accessory-1", "outline"}, childNames(root))
	assert.Same(t, a.Stage(), root.Parent())
	assert.Same(t, root, a.Current())

	outline := root.Find("outline")
	var nonBody int
	for _, l := range root.Leaves() {
		if l.Tag.Role != scene.RoleBody && l.Tag.Role != scene.RoleOutline {
			nonBody++
		}
	}
	assert.Len(t, outline.Children, nonBody)
	for _, l := range outline.Leaves() {
		assert.Equal(t, scene.RoleOutline, l.Tag.Role)
	}
}

func TestOutlineDisabledLeavesEmptyGroup(t *testing.T) {
	a := New(nil)
	root, err := a.Assemble(avatar.Default())
	require.NoError(t, err)
	outline := root.Find("outline")
	require.NotNil(t, outline)
	assert.Empty(t, outline.Children)

	a.SetOutline(true)
	assert.True(t, a.Outline())
	root, err = a.Assemble(avatar.Default())
	require.NoError(t, err)
	assert.NotEmpty(t, root.Find("outline").Children)
}

func TestRebuildDisposesPrevious(t *testing.T) {
	up := &fakeUploader{}
	a := New(nil, WithUploader(up))
	first, err := a.Assemble(avatar.Default())
	require.NoError(t, err)
	firstLeaves := first.Leaves()
	assert.Zero(t, up.released)

	cfg := avatar.Default()
	cfg.Hair.Style = avatar.StyleBob
	second, err := a.Assemble(cfg)
	require.NoError(t, err)

	assert.Equal(t, len(firstLeaves), up.released)
	assert.Nil(t, first.Parent())
	assert.Same(t, second, a.Current())
	assert.Len(t, a.Stage().Children, 1)
	for _, l := range firstLeaves {
		assert.True(t, l.Mesh.Geometry.Released(), l.Name)
		assert.True(t, l.Mesh.Material.Disposed(), l.Name)
	}
}

func TestFailedUploadKeepsPreviousRoot(t *testing.T) {
	up := &fakeUploader{}
	a := New(nil, WithUploader(up))
	first, err := a.Assemble(avatar.Default())
	require.NoError(t, err)

	var notified int
	a.Observe(func(*scene.Node) { notified++ })

	up.fail = errors.New("no drawing surface")
	up.released = 0
	_, err = a.Assemble(avatar.Randomize())
	require.Error(t, err)
	assert.ErrorIs(t, err, up.fail)

	assert.Same(t, first, a.Current())
	assert.Same(t, a.Stage(), first.Parent())
	assert.Zero(t, notified)
	for _, l := range first.Leaves() {
		assert.False(t, l.Mesh.Geometry.Released())
		assert.NotNil(t, l.Mesh.GPU)
	}
	// only the rejected tree was released
	assert.Positive(t, up.released)
}

func TestObserversSeeEveryRebuild(t *testing.T) {
	a := New(nil)
	var seen []*scene.Node
	a.Observe(func(r *scene.Node) { seen = append(seen, r) })
	r1, err := a.Assemble(avatar.Default())
	require.NoError(t, err)
	r2, err := a.Assemble(avatar.Default())
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Same(t, r1, seen[0])
	assert.Same(t, r2, seen[1])
}

func TestCloseDisposesAndRejects(t *testing.T) {
	up := &fakeUploader{}
	a := New(nil, WithUploader(up))
	root, err := a.Assemble(avatar.Default())
	require.NoError(t, err)
	n := len(root.Leaves())

	a.Close()
	assert.Nil(t, a.Current())
	assert.Empty(t, a.Stage().Children)
	assert.Equal(t, n, up.released)

	_, err = a.Assemble(avatar.Default())
	assert.ErrorIs(t, err, ErrClosed)
	a.Close()
}

func TestBuildDoesNotTouchStage(t *testing.T) {
	a := New(nil)
	root := a.Build(avatar.Default())
	assert.Nil(t, root.Parent())
	assert.Nil(t, a.Current())
	for _, l := range root.Leaves() {
		assert.NotNil(t, l.Mesh.Material, l.Name)
	}
}
