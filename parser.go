// Package mlcli implements a multi-level command-line parser.
//
// A program declares a tree of nested groups and commands, each carrying
// named options and, for commands, typed positional arguments. Parse walks
// a token stream against that tree and produces a Result with a unified
// dotted-path namespace, one namespace per tree level, and the matched
// command's arguments.
//
// Option and argument values are typed: scalars (string, int, float, bool,
// time), lists denoted '[v1, v2, ...]' and structs denoted
// '{k1 = v1, k2 = v2, ...}', nested without limit. The tokenizer keeps a
// bracketed or quoted substring as a single token, so nested values survive
// shell-style splitting.
package mlcli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map"

	"github.com/multilevelcli/mlcli/parse"
)

// Parser is the root group of a declaration tree plus the process-wide
// configuration threaded down to children at declaration time. Build the
// tree once, then parse any number of times; the tree is read-only during
// parsing and every parse call gets a fresh Result.
type Parser struct {
	Group
	prog      string
	stdout    io.Writer
	stderr    io.Writer
	helpWidth int
	noHelp    bool

	defaultHelp      HelpFunc
	defaultNoCommand NoCommandFunc
}

// NewParser creates the root of a declaration tree. prog is the program
// name used in usage output. Unless configured otherwise the parser renders
// usage on help and reports ErrNoCommand when parsing ends without a
// command.
func NewParser(prog, description string, configs ...ConfigureParserFunc) (*Parser, error) {
	p := &Parser{
		prog:   prog,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	p.Group.groups = orderedmap.New()
	p.Group.commands = orderedmap.New()
	p.Group.node.init(prog, description, nil, &p.Group)
	p.Group.parser = p

	var err error
	for _, config := range configs {
		config(p, &err)
		if err != nil {
			return nil, err
		}
	}

	if p.defaultHelp == nil {
		p.defaultHelp = p.UsageHelp()
	}
	if p.defaultNoCommand == nil {
		p.defaultNoCommand = p.UsageNoCommand()
	}
	p.Group.noCommandFunc = p.defaultNoCommand
	if !p.noHelp {
		p.Group.helpFunc = p.defaultHelp
		if err := p.Group.addHelpOption(); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Prog returns the program name.
func (p *Parser) Prog() string {
	return p.prog
}

// Parse walks tokens against the declaration tree. Any condition aborts the
// whole call: there is no partial result on error. See ParsePartial for the
// lenient variant.
func (p *Parser) Parse(tokens []string) (*Result, error) {
	return p.run(tokens, false)
}

// ParsePartial is Parse except that an unknown token does not fail the
// call: the namespace built so far is returned and the unknown token plus
// everything after it is available via Result.Unparsed. Parsing does not
// resume past the first unknown token.
func (p *Parser) ParsePartial(tokens []string) (*Result, error) {
	return p.run(tokens, true)
}

// ParseString tokenizes line (honoring grouping, quoting and escaping) and
// parses it.
func (p *Parser) ParseString(line string) (*Result, error) {
	tokens, err := parse.Split(line)
	if err != nil {
		return nil, err
	}
	return p.run(tokens, false)
}

// ParseStringPartial is ParseString in partial mode.
func (p *Parser) ParseStringPartial(line string) (*Result, error) {
	tokens, err := parse.Split(line)
	if err != nil {
		return nil, err
	}
	return p.run(tokens, true)
}

// ParseArgs parses the process argument vector (excluding the program
// name), re-tokenized so that bracketed and quoted values group correctly.
func (p *Parser) ParseArgs() (*Result, error) {
	return p.ParseString(strings.Join(os.Args[1:], " "))
}

func (p *Parser) run(tokens []string, partial bool) (*Result, error) {
	res := newResult()
	if _, err := p.Group.parse(res, tokens); err != nil {
		if !partial || !errors.Is(err, ErrUnknownToken) {
			return nil, err
		}
	}

	if res.command == nil && res.group != nil && res.group.noCommandFunc != nil {
		if err := res.group.noCommandFunc(res.group); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// parse scans the tokens belonging to this group's level: options first
// match, then child groups and commands by name. The returned count
// includes the group's own name token, so callers advance past the whole
// consumed region instead of re-scanning it.
func (g *Group) parse(res *Result, tokens []string) (int, error) {
	res.setGroup(g)
	if err := g.setDefaults(res); err != nil {
		return 0, err
	}

	st := parse.NewState(tokens)
	for st.Advance() {
		t := st.Current()
		switch {
		case strings.HasPrefix(t, "--"):
			consumed, err := g.parseOption(res, t[2:], st.Remaining(), true)
			if err != nil {
				return st.Pos(), err
			}
			st.Skip(consumed - 1)
		case strings.HasPrefix(t, "-"):
			consumed, err := g.parseOption(res, t[1:], st.Remaining(), false)
			if err != nil {
				return st.Pos(), err
			}
			st.Skip(consumed - 1)
		default:
			if sub, ok := g.childGroup(t); ok {
				consumed, err := sub.parse(res, st.Remaining()[1:])
				if err != nil {
					return st.Pos(), err
				}
				st.Skip(consumed - 1)
				continue
			}
			if cmd, ok := g.childCommand(t); ok {
				consumed, err := cmd.parse(res, st.Remaining()[1:])
				if err != nil {
					return st.Pos(), err
				}
				st.Skip(consumed - 1)
				continue
			}
			res.setUnparsed(st.Remaining())
			return st.Pos(), fmt.Errorf("%w: %q at %s", ErrUnknownToken, t, g.displayName())
		}
	}

	return st.Len() + 1, nil
}

// parse scans the tokens belonging to this command: options match as usual,
// any other token binds to the next positional argument in declaration
// order. Missing arguments fail the parse - they are never auto-filled.
func (c *Command) parse(res *Result, tokens []string) (int, error) {
	if err := c.setDefaults(res); err != nil {
		return 0, err
	}
	res.setCommand(c, c.ctx)

	st := parse.NewState(tokens)
	bound := 0
	for st.Advance() {
		t := st.Current()
		switch {
		case strings.HasPrefix(t, "--"):
			consumed, err := c.parseOption(res, t[2:], st.Remaining(), true)
			if err != nil {
				return st.Pos(), err
			}
			st.Skip(consumed - 1)
		case strings.HasPrefix(t, "-"):
			consumed, err := c.parseOption(res, t[1:], st.Remaining(), false)
			if err != nil {
				return st.Pos(), err
			}
			st.Skip(consumed - 1)
		default:
			if bound < len(c.arguments) {
				arg := c.arguments[bound]
				val, err := arg.typ.parseValue(arg.FullName("."), t)
				if err != nil {
					return st.Pos(), err
				}
				res.addArgument(arg.FullName("."), arg.name, val)
				bound++
				continue
			}
			res.setUnparsed(st.Remaining())
			return st.Pos(), fmt.Errorf("%w: %q at %s", ErrUnknownToken, t, c.displayName())
		}
	}

	if bound < len(c.arguments) {
		return st.Len(), fmt.Errorf("%w: command %s requires %d argument(s), %d provided",
			ErrMissingArguments, c.displayName(), len(c.arguments), bound)
	}

	return st.Len() + 1, nil
}

// setDefaults seeds every option declared at this owner with its default
// value, under both the unified and the per-level namespace. Called once on
// entering the owner, before its token scan.
func (n *node) setDefaults(res *Result) error {
	if err := res.initLevel(n.level); err != nil {
		return err
	}
	prefix := n.fullPath(".", true)
	for _, o := range n.optionList {
		if err := res.setOption(n.level, prefix+o.name, o.name, o.seedValue()); err != nil {
			return err
		}
	}
	return nil
}

// parseOption resolves and applies one option token at this owner. rest
// starts at the option token itself; the returned count says how many
// tokens were consumed (the flag alone, or flag plus value).
func (n *node) parseOption(res *Result, name string, rest []string, long bool) (int, error) {
	lookup := n.short
	if long {
		lookup = n.long
	}
	opt, ok := lookup[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s%s", ErrOptionNotFound, n.fullPath(".", true), name)
	}

	consumed := 1
	var val interface{}
	if opt.typ != nil {
		if len(rest) < 2 {
			return 0, fmt.Errorf("%w: %s%s", ErrOptionMissingParam, n.fullPath(".", true), opt.name)
		}
		v, err := opt.typ.parseValue(n.fullPath(".", true)+opt.name, rest[1])
		if err != nil {
			return 0, err
		}
		val = v
		consumed = 2
	} else {
		val = opt.toggleValue()
	}
	if err := res.setOption(n.level, n.fullPath(".", true)+opt.name, opt.name, val); err != nil {
		return 0, err
	}

	// Help fires only on the owner's own help Option instance - an
	// unrelated option whose target name happens to be "help" does not
	// trigger it.
	if n.helpFunc != nil && opt == n.helpOpt {
		if b, ok := val.(bool); ok && b {
			n.helpFunc(n.self)
			return consumed, fmt.Errorf("%w: %s", ErrHelpRequested, n.displayName())
		}
	}

	return consumed, nil
}

// displayName is the full dotted path, or the node's own name at the root
// (whose path contribution is empty).
func (n *node) displayName() string {
	if full := n.fullPath(".", false); full != "" {
		return full
	}
	return n.name
}
