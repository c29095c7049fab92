package commands

import (
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	args, ok := Parse("cmd hair -style long")
	require.True(t, ok)
	assert.Equal(t, []string{"hair", "-style", "long"}, args)

	args, ok = Parse("cmd   ")
	assert.True(t, ok)
	assert.Nil(t, args)

	_, ok = Parse("hello there")
	assert.False(t, ok)
	_, ok = Parse("CMD hair")
	assert.False(t, ok)
}

func TestExecuteRunsWithFreshFlags(t *testing.T) {
	r := NewRegistry()
	var seen []string
	r.Register("hair", "edit hair", func(fs *flag.FlagSet) func() error {
		style := fs.String("style", "", "hair style")
		fs.String("tip", "", "tip color")
		return func() error {
			fs.Visit(func(f *flag.Flag) { seen = append(seen, f.Name) })
			seen = append(seen, *style)
			return nil
		}
	})

	require.NoError(t, r.Execute([]string{"hair", "-style", "bob", "-tip", "#fff"}))
	assert.Equal(t, []string{"style", "tip", "bob"}, seen)

	seen = nil
	require.NoError(t, r.Execute([]string{"hair"}))
	assert.Equal(t, []string{""}, seen)
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("fail", "always fails", func(fs *flag.FlagSet) func() error {
		return func() error { return boom }
	})

	assert.ErrorIs(t, r.Execute(nil), ErrMissing)
	assert.ErrorIs(t, r.Execute([]string{"nope"}), ErrUnknown)
	assert.ErrorIs(t, r.Execute([]string{"fail"}), boom)
	assert.Error(t, r.Execute([]string{"fail", "-x"}))
}

func TestHelpAndUsage(t *testing.T) {
	r := NewRegistry()
	r.Register("grid", "toggle grid", func(fs *flag.FlagSet) func() error {
		fs.Bool("on", true, "show the grid")
		return func() error { return nil }
	})
	r.Register("copy", "copy config", func(*flag.FlagSet) func() error {
		return func() error { return nil }
	})

	assert.Equal(t, []string{"copy", "grid"}, r.Names())
	assert.Equal(t, []string{"copy: copy config", "grid: toggle grid"}, r.Help())
	assert.Contains(t, r.Usage("grid"), "-on")
	assert.Empty(t, r.Usage("nope"))
}
