package mlcli

import "io"

// WithName overrides an option's target name. Without it the target name is
// the long form, or the short form when no long form exists.
func WithName(name string) ConfigureOptionFunc {
	return func(o *Option, err *error) {
		o.name = name
	}
}

// WithType declares the value type of an option. An option without a type
// is a boolean flag which takes no value token.
func WithType(typ *ValueType) ConfigureOptionFunc {
	return func(o *Option, err *error) {
		o.typ = typ
	}
}

// WithDefault declares the value an option resolves to when it is not
// mentioned on the command line. The default must match the declared type.
func WithDefault(value interface{}) ConfigureOptionFunc {
	return func(o *Option, err *error) {
		o.def = value
	}
}

// WithDescription sets the option description used in usage output.
func WithDescription(description string) ConfigureOptionFunc {
	return func(o *Option, err *error) {
		o.description = description
	}
}

// WithGroupHelp sets the help handler for a group, overriding the parser
// default. The implicit -h/--help option is added whenever a handler is in
// force.
func WithGroupHelp(help HelpFunc) ConfigureGroupFunc {
	return func(g *Group, err *error) {
		g.helpFunc = help
		g.helpSet = true
	}
}

// WithoutGroupHelp disables help handling for a group: no -h/--help option
// is added and help tokens are reported as unknown options.
func WithoutGroupHelp() ConfigureGroupFunc {
	return func(g *Group, err *error) {
		g.helpFunc = nil
		g.helpSet = true
	}
}

// WithGroupNoCommand sets the handler invoked when parsing finishes at this
// group without a command, overriding the parser default. A nil handler
// makes a command optional under this group.
func WithGroupNoCommand(handler NoCommandFunc) ConfigureGroupFunc {
	return func(g *Group, err *error) {
		g.noCommandFunc = handler
		g.noCommandSet = true
	}
}

// WithCommandHelp sets the help handler for a command, overriding the
// parser default.
func WithCommandHelp(help HelpFunc) ConfigureCommandFunc {
	return func(c *Command, err *error) {
		c.helpFunc = help
		c.helpSet = true
	}
}

// WithoutCommandHelp disables help handling for a command.
func WithoutCommandHelp() ConfigureCommandFunc {
	return func(c *Command, err *error) {
		c.helpFunc = nil
		c.helpSet = true
	}
}

// WithContext attaches an opaque user value to a command. It is returned
// unchanged by Result.Context after the command is matched.
func WithContext(ctx interface{}) ConfigureCommandFunc {
	return func(c *Command, err *error) {
		c.ctx = ctx
	}
}

// WithHelpHandler sets the parser-wide default help handler, inherited by
// every group and command declared afterwards.
func WithHelpHandler(help HelpFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.defaultHelp = help
	}
}

// WithoutHelp suppresses the root group's implicit -h/--help option.
// Groups and commands declared later still inherit the parser-wide help
// handler; use WithoutGroupHelp or WithoutCommandHelp on those.
func WithoutHelp() ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.noHelp = true
	}
}

// WithNoCommandHandler sets the parser-wide default no-command handler,
// inherited by every group declared afterwards.
func WithNoCommandHandler(handler NoCommandFunc) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.defaultNoCommand = handler
	}
}

// WithStdout redirects usage output.
func WithStdout(w io.Writer) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.stdout = w
	}
}

// WithStderr redirects error output.
func WithStderr(w io.Writer) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.stderr = w
	}
}

// WithHelpWidth fixes the column width used by the usage renderer instead
// of probing the terminal.
func WithHelpWidth(width int) ConfigureParserFunc {
	return func(p *Parser, err *error) {
		p.helpWidth = width
	}
}
