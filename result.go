package mlcli

import "fmt"

// Result holds the outcome of one parse call. It maintains a unified flat
// namespace keyed by dotted full paths, one namespace per tree level
// actually visited, and an arguments-only namespace for the matched
// command. A Result is created fresh per parse and is read-only to the
// caller afterwards.
type Result struct {
	command  *Command
	group    *Group
	ctx      interface{}
	ns       *Namespace
	argsNs   *Namespace
	levels   []*Namespace
	maxLevel int
	unparsed []string
}

func newResult() *Result {
	return &Result{
		ns:     NewNamespace(),
		argsNs: NewNamespace(),
		levels: []*Namespace{NewNamespace()},
	}
}

// setGroup records the group currently being parsed (the last one wins).
func (r *Result) setGroup(g *Group) {
	r.group = g
}

// setCommand records the matched command and its declaration-time context.
func (r *Result) setCommand(c *Command, ctx interface{}) {
	r.command = c
	r.ctx = ctx
}

// initLevel makes sure a namespace exists for level before any option value
// is recorded there. Levels may only grow one at a time; anything else is a
// malformed tree walk.
func (r *Result) initLevel(level int) error {
	if level > r.maxLevel+1 {
		return fmt.Errorf("%w: level %d initialized out of sequence (max %d)", ErrInvalidDeclaration, level, r.maxLevel)
	}
	if level > r.maxLevel {
		r.levels = append(r.levels, NewNamespace())
		r.maxLevel++
	}
	return nil
}

// setOption records an option value under both the unified namespace (full
// dotted path) and the per-level namespace (target name).
func (r *Result) setOption(level int, fullKey, name string, val interface{}) error {
	if level > r.maxLevel {
		return fmt.Errorf("%w: option %q recorded at uninitialized level %d (max %d)", ErrInvalidDeclaration, name, level, r.maxLevel)
	}
	r.ns.Set(fullKey, val)
	r.levels[level].Set(name, val)
	return nil
}

// addArgument records a bound positional argument under both the unified
// namespace and the arguments-only namespace.
func (r *Result) addArgument(fullKey, name string, val interface{}) {
	r.ns.Set(fullKey, val)
	r.argsNs.Set(name, val)
}

func (r *Result) setUnparsed(tokens []string) {
	r.unparsed = tokens
}

// Ns returns the unified namespace covering every visited level's options
// plus the matched command's arguments, keyed by dotted full path.
func (r *Result) Ns() *Namespace {
	return r.ns
}

// Level returns the per-level namespace for the given depth, or false when
// that depth was never visited.
func (r *Result) Level(level int) (*Namespace, bool) {
	if level < 0 || level > r.maxLevel {
		return nil, false
	}
	return r.levels[level], true
}

// Levels returns all per-level namespaces, index 0 being the root group.
func (r *Result) Levels() []*Namespace {
	out := make([]*Namespace, len(r.levels))
	copy(out, r.levels)
	return out
}

// Args returns the arguments-only namespace of the matched command. Empty
// when no command was matched.
func (r *Result) Args() *Namespace {
	return r.argsNs
}

// Opt returns the option namespace of the deepest visited level.
func (r *Result) Opt() *Namespace {
	return r.levels[r.maxLevel]
}

// Group returns the last group visited during the parse.
func (r *Result) Group() *Group {
	return r.group
}

// Command returns the matched command, or nil when parsing ended at a
// group.
func (r *Result) Command() *Command {
	return r.command
}

// CommandName returns the matched command's full dotted name, or "".
func (r *Result) CommandName() string {
	if r.command == nil {
		return ""
	}
	return r.command.FullName(".")
}

// Context returns the matched command's declaration-time context value.
func (r *Result) Context() interface{} {
	return r.ctx
}

// Unparsed returns the trailing tokens left over by a partial parse.
func (r *Result) Unparsed() []string {
	return r.unparsed
}

func (r *Result) String() string {
	group := ""
	if r.group != nil {
		group = r.group.Name()
	}
	return fmt.Sprintf("[%s] [Group %q] %s", r.CommandName(), group, r.ns)
}
