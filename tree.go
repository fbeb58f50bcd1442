package mlcli

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	orderedmap "github.com/wk8/go-ordered-map"
)

// node carries the state shared by groups and commands: identity, position
// in the tree, declared options and the help handler in force.
type node struct {
	name        string
	description string
	parent      *Group
	level       int
	parser      *Parser

	optionList []*Option
	short      map[string]*Option
	long       map[string]*Option

	helpFunc HelpFunc
	helpSet  bool
	helpOpt  *Option

	// self is the Group or Command this node belongs to, for callbacks that
	// take a Node.
	self Node
}

func (n *node) init(name, description string, parent *Group, self Node) {
	n.name = name
	n.description = description
	n.parent = parent
	n.self = self
	n.short = map[string]*Option{}
	n.long = map[string]*Option{}
	if parent != nil {
		n.level = parent.level + 1
		n.parser = parent.parser
	}
}

// Name returns the node's own name.
func (n *node) Name() string {
	return n.name
}

// Description returns the description used in usage output.
func (n *node) Description() string {
	return n.description
}

// Level returns the node's distance from the root group.
func (n *node) Level() int {
	return n.level
}

// FullName returns the fully qualified dotted/spaced name of the node. The
// root group contributes nothing, so a top-level command "list" under the
// root yields "list" and a nested one yields e.g. "class.list" with sep ".".
func (n *node) FullName(sep string) string {
	return n.fullPath(sep, false)
}

func (n *node) fullPath(sep string, trailing bool) string {
	if n.parent == nil {
		return ""
	}
	s := n.parent.fullPath(sep, true) + n.name
	if trailing {
		s += sep
	}
	return s
}

// validName reports whether name is usable for a group, command or option.
// Underscores are legal but ignored for the check; what remains must be
// non-empty and consist of letters, digits and hyphens.
func validName(name string) bool {
	stripped := strings.ReplaceAll(name, "_", "")
	if stripped == "" {
		return false
	}
	for _, c := range stripped {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' {
			return false
		}
	}
	return true
}

// AddOption declares an option on the receiver. At least one of short and
// long must be non-empty (use "" for the form that is absent). The target
// name defaults to the long form, then the short form, and can be overridden
// with WithName; target names are unique within one owner. An option without
// a type (see WithType) is a boolean flag.
func (n *node) AddOption(short, long string, configs ...ConfigureOptionFunc) (*Option, error) {
	opt := &Option{short: short, long: long, owner: n.self}
	var err error
	for _, config := range configs {
		config(opt, &err)
		if err != nil {
			return nil, err
		}
	}
	if opt.name == "" {
		if long != "" {
			opt.name = long
		} else {
			opt.name = short
		}
	}

	if short == "" && long == "" {
		return nil, fmt.Errorf("%w: option on %q needs a short or a long form", ErrInvalidDeclaration, n.fullPath(".", false))
	}
	for _, form := range []string{short, long} {
		if form != "" && !validName(form) {
			return nil, fmt.Errorf("%w: invalid option name %q on %q", ErrInvalidDeclaration, form, n.fullPath(".", false))
		}
	}
	if !validName(opt.name) {
		return nil, fmt.Errorf("%w: invalid option name %q on %q", ErrInvalidDeclaration, opt.name, n.fullPath(".", false))
	}
	for _, existing := range n.optionList {
		if existing.name == opt.name {
			return nil, fmt.Errorf("%w: option name %q already declared on %q", ErrInvalidDeclaration, opt.name, n.fullPath(".", false))
		}
	}
	if short != "" {
		if _, exists := n.short[short]; exists {
			return nil, fmt.Errorf("%w: short option %q already declared on %q", ErrInvalidDeclaration, short, n.fullPath(".", false))
		}
	}
	if long != "" {
		if _, exists := n.long[long]; exists {
			return nil, fmt.Errorf("%w: long option %q already declared on %q", ErrInvalidDeclaration, long, n.fullPath(".", false))
		}
	}
	if opt.def != nil && opt.typ != nil {
		opt.def = normalizeDefault(opt.typ, opt.def)
		if !opt.typ.acceptsDefault(opt.def) {
			return nil, fmt.Errorf("%w: default %v does not match declared type %s for option %q", ErrInvalidDeclaration, opt.def, opt.typ.TypeName(), opt.name)
		}
	}

	n.optionList = append(n.optionList, opt)
	if short != "" {
		n.short[short] = opt
	}
	if long != "" {
		n.long[long] = opt
	}

	return opt, nil
}

// addHelpOption installs the implicit -h/--help flag. Called once per node
// when a help handler is in force.
func (n *node) addHelpOption() error {
	opt, err := n.AddOption("h", "help", WithDescription("help screen (this screen)"))
	if err != nil {
		return err
	}
	n.helpOpt = opt
	return nil
}

// Option is a named, non-positional input declared on a group or command.
type Option struct {
	short       string
	long        string
	name        string
	typ         *ValueType
	def         interface{}
	description string
	owner       Node
}

// Name returns the option's target name (explicit name > long > short).
func (o *Option) Name() string {
	return o.name
}

// Description returns the description used in usage output.
func (o *Option) Description() string {
	return o.description
}

// FullName returns the owner's full path followed by the option's target
// name.
func (o *Option) FullName(sep string) string {
	return ownerPath(o.owner, sep) + o.name
}

// Level returns the level of the owning group or command.
func (o *Option) Level() int {
	return o.owner.Level()
}

// Short returns the short form, or "".
func (o *Option) Short() string {
	return o.short
}

// Long returns the long form, or "".
func (o *Option) Long() string {
	return o.long
}

// Type returns the declared value type, or nil for a boolean flag.
func (o *Option) Type() *ValueType {
	return o.typ
}

// Default returns the declared default value, or nil.
func (o *Option) Default() interface{} {
	return o.def
}

// seedValue is the value an option resolves to when it is not mentioned on
// the command line: its declared default, or false for untyped flags.
func (o *Option) seedValue() interface{} {
	if o.typ != nil || o.def != nil {
		return o.def
	}
	return false
}

// toggleValue is the value a flag option resolves to when it is mentioned:
// the logical negation of its default.
func (o *Option) toggleValue() interface{} {
	if d, ok := o.def.(bool); ok {
		return !d
	}
	return true
}

// Argument is a named, positional, mandatory input declared on a command.
type Argument struct {
	name        string
	typ         *ValueType
	description string
	owner       Node
}

// Name returns the argument's name.
func (a *Argument) Name() string {
	return a.name
}

// Description returns the description used in usage output.
func (a *Argument) Description() string {
	return a.description
}

// FullName returns the owning command's full path followed by the argument
// name.
func (a *Argument) FullName(sep string) string {
	return ownerPath(a.owner, sep) + a.name
}

// Level returns the level of the owning command.
func (a *Argument) Level() int {
	return a.owner.Level()
}

// Type returns the argument's declared value type.
func (a *Argument) Type() *ValueType {
	return a.typ
}

func ownerPath(owner Node, sep string) string {
	if full := owner.FullName(sep); full != "" {
		return full + sep
	}
	return ""
}

// Group is an internal tree node: it owns child groups, child commands and
// its own options.
type Group struct {
	node
	groups        *orderedmap.OrderedMap // name -> *Group
	commands      *orderedmap.OrderedMap // name -> *Command
	noCommandFunc NoCommandFunc
	noCommandSet  bool
}

func newGroup(name, description string, parent *Group) *Group {
	g := &Group{
		groups:   orderedmap.New(),
		commands: orderedmap.New(),
	}
	g.node.init(name, description, parent, g)
	return g
}

// AddGroup declares a child group. The group inherits the parser's default
// help and no-command handlers unless configured otherwise.
func (g *Group) AddGroup(name, description string, configs ...ConfigureGroupFunc) (*Group, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: invalid group name %q under %q", ErrInvalidDeclaration, name, g.fullPath(".", false))
	}
	if g.hasChild(name) {
		return nil, fmt.Errorf("%w: name %q already declared under %q", ErrInvalidDeclaration, name, g.fullPath(".", false))
	}

	child := newGroup(name, description, g)
	var err error
	for _, config := range configs {
		config(child, &err)
		if err != nil {
			return nil, err
		}
	}
	if !child.helpSet {
		child.helpFunc = g.parser.defaultHelp
	}
	if !child.noCommandSet {
		child.noCommandFunc = g.parser.defaultNoCommand
	}
	if child.helpFunc != nil {
		if err := child.addHelpOption(); err != nil {
			return nil, err
		}
	}

	g.groups.Set(name, child)
	return child, nil
}

// AddCommand declares a child command. The command inherits the parser's
// default help handler unless configured otherwise.
func (g *Group) AddCommand(name, description string, configs ...ConfigureCommandFunc) (*Command, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: invalid command name %q under %q", ErrInvalidDeclaration, name, g.fullPath(".", false))
	}
	if g.hasChild(name) {
		return nil, fmt.Errorf("%w: name %q already declared under %q", ErrInvalidDeclaration, name, g.fullPath(".", false))
	}

	cmd := &Command{}
	cmd.node.init(name, description, g, cmd)
	var err error
	for _, config := range configs {
		config(cmd, &err)
		if err != nil {
			return nil, err
		}
	}
	if !cmd.helpSet {
		cmd.helpFunc = g.parser.defaultHelp
	}
	if cmd.helpFunc != nil {
		if err := cmd.addHelpOption(); err != nil {
			return nil, err
		}
	}

	g.commands.Set(name, cmd)
	return cmd, nil
}

// AddOption declares an option on the group. Short and long forms may not
// shadow a child group or command name.
func (g *Group) AddOption(short, long string, configs ...ConfigureOptionFunc) (*Option, error) {
	for _, form := range []string{short, long} {
		if form != "" && g.hasChild(form) {
			return nil, fmt.Errorf("%w: option form %q shadows a child of %q", ErrInvalidDeclaration, form, g.fullPath(".", false))
		}
	}
	return g.node.AddOption(short, long, configs...)
}

// Groups returns the child groups in declaration order.
func (g *Group) Groups() []*Group {
	out := make([]*Group, 0, g.groups.Len())
	for p := g.groups.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value.(*Group))
	}
	return out
}

// Commands returns the child commands in declaration order.
func (g *Group) Commands() []*Command {
	out := make([]*Command, 0, g.commands.Len())
	for p := g.commands.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value.(*Command))
	}
	return out
}

// Options returns the declared options in declaration order.
func (n *node) Options() []*Option {
	out := make([]*Option, len(n.optionList))
	copy(out, n.optionList)
	return out
}

func (g *Group) hasChild(name string) bool {
	if _, ok := g.groups.Get(name); ok {
		return true
	}
	_, ok := g.commands.Get(name)
	return ok
}

func (g *Group) childGroup(name string) (*Group, bool) {
	v, ok := g.groups.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Group), true
}

func (g *Group) childCommand(name string) (*Command, bool) {
	v, ok := g.commands.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Command), true
}

// ShowTree writes an indented dump of the declaration tree to w.
func (g *Group) ShowTree(w io.Writer) {
	g.showTree(w, 0)
}

func (g *Group) showTree(w io.Writer, depth int) {
	fmt.Fprintf(w, "%s[%s]%s\n", strings.Repeat("\t", depth), g.name, describe(g.description))
	for _, cmd := range g.Commands() {
		fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("\t", depth+1), cmd.name, describe(cmd.description))
	}
	for _, sub := range g.Groups() {
		sub.showTree(w, depth+1)
	}
}

func describe(description string) string {
	if description == "" {
		return ""
	}
	return "    - " + description
}

// Command is a leaf tree node: it owns an ordered list of typed positional
// arguments and its own options, and may carry an opaque user context value
// which is handed back unchanged in the parse result.
type Command struct {
	node
	arguments []*Argument
	ctx       interface{}
}

// AddArgument appends a positional argument to the command. Arguments are
// mandatory and bound in declaration order. A nil type defaults to String.
func (c *Command) AddArgument(name string, typ *ValueType, description string) (*Argument, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: argument on %q needs a name", ErrInvalidDeclaration, c.fullPath(".", false))
	}
	for _, existing := range c.arguments {
		if existing.name == name {
			return nil, fmt.Errorf("%w: argument %q already declared on %q", ErrInvalidDeclaration, name, c.fullPath(".", false))
		}
	}
	if typ == nil {
		typ = String()
	}

	arg := &Argument{name: name, typ: typ, description: description, owner: c}
	c.arguments = append(c.arguments, arg)
	return arg, nil
}

// Arguments returns the declared arguments in declaration order.
func (c *Command) Arguments() []*Argument {
	out := make([]*Argument, len(c.arguments))
	copy(out, c.arguments)
	return out
}

// Context returns the opaque context value attached at declaration time.
func (c *Command) Context() interface{} {
	return c.ctx
}

// normalizeDefault widens Go literal defaults to the representation
// parseValue produces, so that seeded and parsed values compare equal.
func normalizeDefault(t *ValueType, v interface{}) interface{} {
	if t.kind == KindScalar && t.name == "int" {
		if i, ok := v.(int); ok {
			return int64(i)
		}
	}
	return v
}
