package mlcli

import (
	"fmt"
	"strings"

	"github.com/multilevelcli/mlcli/util"
)

// Renderer formats usage screens for groups and commands. Output width
// follows the parser's configured help width, then the terminal, then 80
// columns.
type Renderer struct {
	parser *Parser
	width  int
}

// NewRenderer returns a Renderer bound to the parser's declaration tree.
func NewRenderer(p *Parser) *Renderer {
	width := p.helpWidth
	if width <= 0 {
		width = util.TerminalWidth(80)
	}
	return &Renderer{parser: p, width: width}
}

// Usage renders the usage screen for a group or command node.
func (r *Renderer) Usage(n Node) string {
	switch t := n.(type) {
	case *Group:
		return r.UsageGroup(t)
	case *Command:
		return r.UsageCommand(t)
	}
	return ""
}

// UsageGroup renders the usage screen for a group: the usage line with the
// group's own options and child names, then the option, command and group
// listings.
func (r *Renderer) UsageGroup(g *Group) string {
	var sb strings.Builder

	line := "Usage: " + r.pathTo(&g.node)
	for _, o := range g.Options() {
		line += " " + optionForm(o)
	}
	if names := childNames(g); names != "" {
		line += " " + names + " ..."
	}
	sb.WriteString(util.Wrap(line, r.width, "", "    "))
	sb.WriteString("\n")

	if g.Description() != "" {
		sb.WriteString("\n")
		sb.WriteString(util.Wrap(g.Description(), r.width, "", ""))
		sb.WriteString("\n")
	}

	r.writeOptions(&sb, g.Options())

	if cmds := g.Commands(); len(cmds) > 0 {
		sb.WriteString("\nCommands:\n")
		for _, cmd := range cmds {
			r.writeEntry(&sb, cmd.Name(), cmd.Description())
		}
	}
	if subs := g.Groups(); len(subs) > 0 {
		sb.WriteString("\nGroups:\n")
		for _, sub := range subs {
			r.writeEntry(&sb, sub.Name(), sub.Description())
		}
	}

	return sb.String()
}

// UsageCommand renders the usage screen for a command: the usage line with
// its options and positional arguments, then the option and argument
// listings.
func (r *Renderer) UsageCommand(c *Command) string {
	var sb strings.Builder

	line := "Usage: " + r.pathTo(&c.node)
	for _, o := range c.Options() {
		line += " " + optionForm(o)
	}
	for _, a := range c.Arguments() {
		line += " <" + a.Name() + ">"
	}
	sb.WriteString(util.Wrap(line, r.width, "", "    "))
	sb.WriteString("\n")

	if c.Description() != "" {
		sb.WriteString("\n")
		sb.WriteString(util.Wrap(c.Description(), r.width, "", ""))
		sb.WriteString("\n")
	}

	r.writeOptions(&sb, c.Options())

	if args := c.Arguments(); len(args) > 0 {
		sb.WriteString("\nArguments:\n")
		for _, a := range args {
			r.writeEntry(&sb, a.Name()+" "+a.Type().TypeName(), a.Description())
		}
	}

	return sb.String()
}

func (r *Renderer) writeOptions(sb *strings.Builder, opts []*Option) {
	if len(opts) == 0 {
		return
	}
	sb.WriteString("\nOptions:\n")
	for _, o := range opts {
		label := optionLabel(o)
		if o.Type() != nil {
			label += " " + o.Type().TypeName()
		}
		desc := o.Description()
		if o.Default() != nil {
			desc = strings.TrimSpace(desc + fmt.Sprintf(" (default: %v)", o.Default()))
		}
		r.writeEntry(sb, label, desc)
	}
}

// writeEntry emits one two-column listing row. Long labels push the
// description to its own wrapped block instead of breaking the columns.
func (r *Renderer) writeEntry(sb *strings.Builder, label, description string) {
	const col = 26
	row := "  " + label
	if description == "" {
		sb.WriteString(row)
		sb.WriteString("\n")
		return
	}
	if len(row) < col {
		row += strings.Repeat(" ", col-len(row))
		sb.WriteString(util.Wrap(row+description, r.width, "", strings.Repeat(" ", col)))
	} else {
		sb.WriteString(row)
		sb.WriteString("\n")
		sb.WriteString(util.Wrap(description, r.width, strings.Repeat(" ", col), strings.Repeat(" ", col)))
	}
	sb.WriteString("\n")
}

// pathTo is the program name followed by the node's space-separated path.
func (r *Renderer) pathTo(n *node) string {
	if full := n.FullName(" "); full != "" {
		return r.parser.prog + " " + full
	}
	return r.parser.prog
}

// optionForm is the usage-line rendering of an option, e.g. "[-t <string>]"
// or "[-h|--help]".
func optionForm(o *Option) string {
	s := optionLabel(o)
	if o.Type() != nil {
		s += " " + o.Type().TypeName()
	}
	return "[" + s + "]"
}

func optionLabel(o *Option) string {
	switch {
	case o.Short() != "" && o.Long() != "":
		return "-" + o.Short() + "|--" + o.Long()
	case o.Short() != "":
		return "-" + o.Short()
	default:
		return "--" + o.Long()
	}
}

// childNames is the command and group alternation for a group's usage
// line, e.g. "{new|list|instance}".
func childNames(g *Group) string {
	var names []string
	for _, cmd := range g.Commands() {
		names = append(names, cmd.Name())
	}
	for _, sub := range g.Groups() {
		names = append(names, sub.Name())
	}
	if len(names) == 0 {
		return ""
	}
	return "{" + strings.Join(names, "|") + "}"
}

// UsageHelp returns a help handler that renders the node's usage screen to
// the parser's stdout.
func (p *Parser) UsageHelp() HelpFunc {
	return func(n Node) {
		fmt.Fprint(p.stdout, NewRenderer(p).Usage(n))
	}
}

// UsageNoCommand returns a no-command handler that renders the group's
// usage screen to the parser's stderr and fails the parse with
// ErrNoCommand.
func (p *Parser) UsageNoCommand() NoCommandFunc {
	return func(g *Group) error {
		fmt.Fprint(p.stderr, NewRenderer(p).UsageGroup(g))
		return fmt.Errorf("%w: group %s", ErrNoCommand, g.displayName())
	}
}

// QuietNoCommand returns a no-command handler that fails the parse with
// ErrNoCommand without rendering anything.
func QuietNoCommand() NoCommandFunc {
	return func(g *Group) error {
		return fmt.Errorf("%w: group %s", ErrNoCommand, g.displayName())
	}
}
