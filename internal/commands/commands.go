package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Prefix marks a console line as a command.
const Prefix = "cmd "

var (
	// ErrMissing is returned for "cmd" with nothing after it.
	ErrMissing = errors.New("missing subcommand")
	// ErrUnknown is returned for a subcommand that was never registered.
	ErrUnknown = errors.New("unknown command")
)

// Setup declares flags on fs and returns the function run after fs.Parse succeeds.
// A fresh FlagSet is built for every invocation, so fs.Visit only reports flags given on
// this line and values never leak between runs.
type Setup func(fs *flag.FlagSet) func() error

// Command is a registered subcommand.
type Command struct {
	Name    string
	Summary string
	setup   Setup
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. name is the first token after "cmd" (e.g. "hair").
// Registering a name twice replaces the earlier command.
func (r *Registry) Register(name, summary string, setup Setup) {
	r.cmds[name] = &Command{Name: name, Summary: summary, setup: setup}
}

// Names returns the registered subcommands in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Help returns one "name: summary" line per command, sorted by name.
func (r *Registry) Help() []string {
	lines := make([]string, 0, len(r.cmds))
	for _, name := range r.Names() {
		lines = append(lines, name+": "+r.cmds[name].Summary)
	}
	return lines
}

// Usage returns the flag defaults of name, or an empty string for unknown commands.
func (r *Registry) Usage(name string) string {
	cmd, ok := r.cmds[name]
	if !ok {
		return ""
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cmd.setup(fs)
	var b strings.Builder
	fs.SetOutput(&b)
	fs.PrintDefaults()
	return strings.TrimRight(b.String(), "\n")
}

// Parse interprets line as a console line. If line starts with "cmd " (case-sensitive),
// the rest is tokenized by spaces and returned with ok true. Otherwise nil, false.
func Parse(line string) (args []string, ok bool) {
	if !strings.HasPrefix(line, Prefix) {
		return nil, false
	}
	rest := strings.TrimSpace(line[len(Prefix):])
	if rest == "" {
		return nil, true
	}
	return strings.Fields(rest), true
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from the command itself.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return ErrMissing
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	run := cmd.setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
