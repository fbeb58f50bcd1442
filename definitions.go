package mlcli

import (
	"errors"
)

// Node is implemented by every member of a declaration tree - Group,
// Command, Option and Argument. It exposes the dotted-path/level protocol
// shared by all four kinds.
type Node interface {
	// Name returns the node's own name.
	Name() string
	// Description returns the description used in usage output.
	Description() string
	// FullName returns the fully qualified name of the node, e.g.
	// "group<sep>subgroup<sep>command". The root group contributes nothing.
	FullName(sep string) string
	// Level returns the distance of the node from the root group (root = 0).
	Level() int
}

// HelpFunc renders help for a node. It is invoked when a help option is seen
// during parsing; the parse call then unwinds with ErrHelpRequested.
type HelpFunc func(node Node)

// NoCommandFunc is invoked when a parse finishes at a group without any
// command having been matched. A non-nil return aborts the parse with that
// error; returning nil lets the parse succeed with no command selected.
type NoCommandFunc func(group *Group) error

// ConfigureParserFunc is used when configuring a Parser.
type ConfigureParserFunc func(p *Parser, err *error)

// ConfigureGroupFunc is used when configuring a Group.
type ConfigureGroupFunc func(g *Group, err *error)

// ConfigureCommandFunc is used when configuring a Command.
type ConfigureCommandFunc func(c *Command, err *error)

// ConfigureOptionFunc is used when configuring an Option.
type ConfigureOptionFunc func(o *Option, err *error)

var (
	// ErrInvalidDeclaration reports a declaration-time mistake - an invalid
	// or colliding name, an option without short and long form, or a default
	// whose type does not match the declared option type.
	ErrInvalidDeclaration = errors.New("invalid declaration")
	// ErrOptionNotFound reports a '-x'/'--x' token with no matching option
	// at the current owner.
	ErrOptionNotFound = errors.New("option not found")
	// ErrOptionMissingParam reports a typed option with no following value
	// token.
	ErrOptionMissingParam = errors.New("option requires a parameter")
	// ErrArgumentType reports a token which cannot be converted to the
	// declared scalar, list or struct type, including malformed '[...]' or
	// '{...}' framing.
	ErrArgumentType = errors.New("argument type error")
	// ErrArgumentKey reports a struct literal referencing a field name not
	// in the declared type.
	ErrArgumentKey = errors.New("unknown struct key")
	// ErrMissingArguments reports a command which finished its token scan
	// with fewer positional arguments bound than declared.
	ErrMissingArguments = errors.New("missing arguments")
	// ErrNoCommand reports a parse which ended at a group without matching
	// any command.
	ErrNoCommand = errors.New("no command")
	// ErrUnknownToken reports a token which matches nothing resolvable at
	// the current level.
	ErrUnknownToken = errors.New("unknown token")
	// ErrHelpRequested is not a failure: it signals that help output was
	// requested and the parse was unwound.
	ErrHelpRequested = errors.New("help requested")
)
