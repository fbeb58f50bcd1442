package mlcli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

// demoTree declares the two-level service tree used throughout the engine
// tests: class and instance groups with typed options, list/struct values
// and per-node help overrides.
func demoTree(t *testing.T, configs ...ConfigureParserFunc) *Parser {
	t.Helper()
	cli := quietParser(t, configs...)

	_, err := cli.AddOption("t", "treelevels", WithType(Int()), WithDefault(7),
		WithDescription("max tree levels to process"))
	assert.Nil(t, err)
	_, err = cli.AddOption("q", "quiet", WithDescription("do not emit messages"))
	assert.Nil(t, err)
	_, err = cli.AddCommand("list", "")
	assert.Nil(t, err)

	class, err := cli.AddGroup("class", "")
	assert.Nil(t, err)
	_, err = class.AddOption("t", "trim", WithDescription("trim the results"))
	assert.Nil(t, err)

	classNew, err := class.AddCommand("new", "create a new service class")
	assert.Nil(t, err)
	_, err = classNew.AddArgument("name", nil, "the name of the new class")
	assert.Nil(t, err)
	_, err = classNew.AddArgument("capacity_unit", nil, "size of a capacity unit in GB")
	assert.Nil(t, err)
	_, err = classNew.AddOption("x", "max_units", WithType(Int()), WithDefault(10))
	assert.Nil(t, err)
	_, err = classNew.AddOption("m", "min_units", WithType(Int()), WithDefault(3))
	assert.Nil(t, err)

	classList, err := class.AddCommand("list", "")
	assert.Nil(t, err)
	_, err = classList.AddOption("l", "", WithDescription("use long listing format"))
	assert.Nil(t, err)
	_, err = classList.AddOption("", "format", WithType(String()), WithDefault("def"))
	assert.Nil(t, err)

	instance, err := cli.AddGroup("instance", "")
	assert.Nil(t, err)

	instNew, err := instance.AddCommand("new", "")
	assert.Nil(t, err)
	_, err = instNew.AddArgument("name", nil, "")
	assert.Nil(t, err)
	_, err = instNew.AddArgument("type", nil, "")
	assert.Nil(t, err)
	_, err = instNew.AddArgument("size", Int(), "")
	assert.Nil(t, err)
	_, err = instNew.AddOption("l", "log", WithType(Int()), WithDefault(5))
	assert.Nil(t, err)

	cred := StructOf(
		Field{Name: "password", Type: String()},
		Field{Name: "user", Type: String()},
		Field{Name: "userid", Type: Int()},
	)

	instInfo, err := instance.AddCommand("info", "")
	assert.Nil(t, err)
	_, err = instInfo.AddArgument("item", ListOf(String()), "instance ids")
	assert.Nil(t, err)
	_, err = instInfo.AddOption("", "ids", WithType(ListOf(Int())))
	assert.Nil(t, err)
	_, err = instInfo.AddOption("", "cred", WithType(cred))
	assert.Nil(t, err)
	_, err = instInfo.AddOption("", "complex", WithType(ListOf(ListOf(Int()))))
	assert.Nil(t, err)
	_, err = instInfo.AddOption("", "complexstar", WithType(ListOf(StructOf(
		Field{Name: "key1", Type: String()},
		Field{Name: "key2", Type: Int()},
		Field{Name: "key3", Type: ListOf(Int())},
	))))
	assert.Nil(t, err)

	instSet, err := instance.AddCommand("set", "")
	assert.Nil(t, err)
	_, err = instSet.AddArgument("cred", cred, "")
	assert.Nil(t, err)

	instResize, err := instance.AddCommand("resize", "")
	assert.Nil(t, err)
	_, err = instResize.AddOption("", "force", WithDescription("force resize"))
	assert.Nil(t, err)

	beta, err := cli.AddGroup("beta", "", WithoutGroupHelp())
	assert.Nil(t, err)
	_, err = beta.AddCommand("test", "", WithContext("context"))
	assert.Nil(t, err)

	return cli
}

func nsGet(t *testing.T, res *Result, key string) interface{} {
	t.Helper()
	v, ok := res.Ns().Get(key)
	assert.True(t, ok, "expected key %q in %v", key, res.Ns())
	return v
}

func TestParser_NoCommand(t *testing.T) {
	cli := demoTree(t)

	_, err := cli.ParseString("")
	assert.ErrorIs(t, err, ErrNoCommand)

	_, err = cli.ParseString("-q")
	assert.ErrorIs(t, err, ErrNoCommand)

	_, err = cli.ParseString("class")
	assert.ErrorIs(t, err, ErrNoCommand, "a group without a command should not parse")
}

func TestParser_FirstLevelCommand(t *testing.T) {
	cli := demoTree(t)

	res, err := cli.ParseString("list")
	assert.Nil(t, err)
	assert.Equal(t, "list", res.CommandName())
	assert.Equal(t, int64(7), nsGet(t, res, "treelevels"), "untouched options should carry their default")
	assert.Equal(t, false, nsGet(t, res, "quiet"))

	res, err = cli.ParseString("-t 5 list")
	assert.Nil(t, err)
	assert.Equal(t, int64(5), nsGet(t, res, "treelevels"))

	res, err = cli.ParseString("-q list")
	assert.Nil(t, err)
	assert.Equal(t, true, nsGet(t, res, "quiet"), "mentioning a flag should toggle its default")
}

func TestParser_SecondLevelCommand(t *testing.T) {
	cli := demoTree(t)

	res, err := cli.ParseString("class list")
	assert.Nil(t, err)
	assert.Equal(t, "class.list", res.CommandName())
	assert.Equal(t, "def", nsGet(t, res, "class.list.format"))
	assert.Equal(t, false, nsGet(t, res, "class.trim"))

	res, err = cli.ParseString("class list -l")
	assert.Nil(t, err)
	assert.Equal(t, true, nsGet(t, res, "class.list.l"))

	res, err = cli.ParseString("class list --format csv")
	assert.Nil(t, err)
	assert.Equal(t, "csv", nsGet(t, res, "class.list.format"))
}

func TestParser_Arguments(t *testing.T) {
	cli := demoTree(t)

	_, err := cli.ParseString("class new newclass")
	assert.ErrorIs(t, err, ErrMissingArguments)

	res, err := cli.ParseString("class new newclass 8")
	assert.Nil(t, err)
	name, ok := res.Args().Get("name")
	assert.True(t, ok)
	assert.Equal(t, "newclass", name)
	assert.Equal(t, "8", nsGet(t, res, "class.new.capacity_unit"))

	res, err = cli.ParseString("class new newclass -x 9 10")
	assert.Nil(t, err)
	assert.Equal(t, int64(9), nsGet(t, res, "class.new.max_units"))
	assert.Equal(t, "10", nsGet(t, res, "class.new.capacity_unit"),
		"a token after an option's value should bind to the next argument")

	_, err = cli.ParseString("instance new kuku def aa")
	assert.ErrorIs(t, err, ErrArgumentType)

	res, err = cli.ParseString("instance new kuku def 7")
	assert.Nil(t, err)
	assert.Equal(t, int64(7), nsGet(t, res, "instance.new.size"))
}

func TestParser_MultiLevelMix(t *testing.T) {
	cli := demoTree(t)

	res, err := cli.ParseString("-q class -t new newclass -x 9 --max_units 13 --min_units 7 100")
	assert.Nil(t, err)
	assert.Equal(t, "class.new", res.CommandName())
	assert.Equal(t, true, nsGet(t, res, "quiet"))
	assert.Equal(t, true, nsGet(t, res, "class.trim"))
	assert.Equal(t, int64(13), nsGet(t, res, "class.new.max_units"),
		"a later mention of the same option should win")
	assert.Equal(t, int64(7), nsGet(t, res, "class.new.min_units"))
	assert.Equal(t, "100", nsGet(t, res, "class.new.capacity_unit"))

	lvl0, ok := res.Level(0)
	assert.True(t, ok)
	v, _ := lvl0.Get("quiet")
	assert.Equal(t, true, v)
	_, ok = lvl0.Get("trim")
	assert.False(t, ok, "level namespaces should not leak across levels")

	lvl1, ok := res.Level(1)
	assert.True(t, ok)
	v, _ = lvl1.Get("trim")
	assert.Equal(t, true, v)

	opt := res.Opt()
	v, _ = opt.Get("max_units")
	assert.Equal(t, int64(13), v, "Opt should be the deepest level's namespace")

	_, ok = res.Level(3)
	assert.False(t, ok)
	assert.Len(t, res.Levels(), 3)
}

func TestParser_LevelIsolation(t *testing.T) {
	cli := quietParser(t)
	_, err := cli.AddOption("v", "verbose", WithType(Int()), WithDefault(0))
	assert.Nil(t, err)
	g, err := cli.AddGroup("sub", "")
	assert.Nil(t, err)
	_, err = g.AddOption("v", "verbose", WithType(Int()), WithDefault(0))
	assert.Nil(t, err)
	_, err = g.AddCommand("run", "")
	assert.Nil(t, err)

	res, err := cli.ParseString("-v 1 sub -v 2 run")
	assert.Nil(t, err)

	assert.Equal(t, int64(1), nsGet(t, res, "verbose"))
	assert.Equal(t, int64(2), nsGet(t, res, "sub.verbose"),
		"the same target name at two levels should stay distinct in the unified namespace")

	lvl0, _ := res.Level(0)
	v, _ := lvl0.Get("verbose")
	assert.Equal(t, int64(1), v)
	lvl1, _ := res.Level(1)
	v, _ = lvl1.Get("verbose")
	assert.Equal(t, int64(2), v)
}

func TestParser_HelpBeforeArguments(t *testing.T) {
	cli := demoTree(t)

	_, err := cli.ParseString("class new --help")
	assert.ErrorIs(t, err, ErrHelpRequested,
		"help should fire before the missing-arguments check")

	_, err = cli.ParseString("class new -h newclass 8")
	assert.ErrorIs(t, err, ErrHelpRequested,
		"help should abort the scan before arguments bind")
}

func TestParser_UnknownToken(t *testing.T) {
	cli := demoTree(t)

	_, err := cli.ParseString("instance new kuku def 7 8")
	assert.ErrorIs(t, err, ErrUnknownToken)

	_, err = cli.ParseString("xxx")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestParser_Partial(t *testing.T) {
	cli := demoTree(t)

	res, err := cli.ParseStringPartial("instance new kuku def 7 8")
	assert.Nil(t, err, "partial mode should tolerate trailing unknown tokens")
	assert.Equal(t, "instance.new", res.CommandName())
	assert.Equal(t, []string{"8"}, res.Unparsed())

	_, err = cli.ParseStringPartial("-q xxx new kuku def 7 8")
	assert.ErrorIs(t, err, ErrNoCommand,
		"an unknown token before any command still ends without a command")

	_, err = cli.ParseString("instance new kuku def 7 8")
	assert.ErrorIs(t, err, ErrUnknownToken, "strict mode should keep failing")
}

func TestParser_OptionErrors(t *testing.T) {
	cli := demoTree(t)

	_, err := cli.ParseString("instance new kuku def 7 -x 9")
	assert.ErrorIs(t, err, ErrOptionNotFound)

	_, err = cli.ParseString("class new a b -x")
	assert.ErrorIs(t, err, ErrOptionMissingParam)

	_, err = cli.ParseString("-t five list")
	assert.ErrorIs(t, err, ErrArgumentType)
}

func TestParser_Help(t *testing.T) {
	cli := demoTree(t)

	_, err := cli.ParseString("-q --help")
	assert.ErrorIs(t, err, ErrHelpRequested)

	_, err = cli.ParseString("class -h list -l")
	assert.ErrorIs(t, err, ErrHelpRequested, "group help should fire before the command is reached")

	_, err = cli.ParseString("class list -l -h")
	assert.ErrorIs(t, err, ErrHelpRequested)

	_, err = cli.ParseString("class new newclass --help")
	assert.ErrorIs(t, err, ErrHelpRequested)

	_, err = cli.ParseString("instance resize -h")
	assert.ErrorIs(t, err, ErrHelpRequested)

	_, err = cli.ParseString("instance -h new kuku def 7 -h")
	assert.ErrorIs(t, err, ErrHelpRequested)
}

func TestParser_HelpOverride(t *testing.T) {
	called := 0
	cli := quietParser(t)
	alpha, err := cli.AddGroup("alpha", "", WithGroupHelp(func(n Node) {
		called++
		assert.Equal(t, "alpha", n.FullName("."))
	}))
	assert.Nil(t, err)
	_, err = alpha.AddCommand("list", "", WithCommandHelp(func(n Node) {
		called++
	}))
	assert.Nil(t, err)

	_, err = cli.ParseString("alpha -h")
	assert.ErrorIs(t, err, ErrHelpRequested)
	assert.Equal(t, 1, called)

	_, err = cli.ParseString("alpha list -h")
	assert.ErrorIs(t, err, ErrHelpRequested)
	assert.Equal(t, 2, called)
}

func TestParser_HelpKeyedToInstance(t *testing.T) {
	called := 0
	cli := quietParser(t, WithHelpHandler(func(n Node) { called++ }))

	run, err := cli.AddCommand("run", "", WithoutCommandHelp())
	assert.Nil(t, err)
	_, err = run.AddOption("", "verbose", WithName("help"))
	assert.Nil(t, err)

	res, err := cli.ParseString("run --verbose")
	assert.Nil(t, err, "an option merely named help should not invoke the handler")
	assert.Equal(t, true, nsGet(t, res, "run.help"))
	assert.Equal(t, 0, called)

	_, err = cli.ParseString("--help")
	assert.ErrorIs(t, err, ErrHelpRequested, "the owner's own help option should still fire")
	assert.Equal(t, 1, called)
}

func TestParser_HelpDisabled(t *testing.T) {
	cli := demoTree(t)

	_, err := cli.ParseString("beta -h")
	assert.ErrorIs(t, err, ErrOptionNotFound, "a group without a help handler has no -h option")

	res, err := cli.ParseString("beta test")
	assert.Nil(t, err)
	assert.Equal(t, "context", res.Context())
	assert.Equal(t, "beta.test", res.CommandName())
}

func TestParser_ListValues(t *testing.T) {
	cli := demoTree(t)

	_, err := cli.ParseString("instance info 1,2,3,4")
	assert.ErrorIs(t, err, ErrArgumentType, "a list argument requires brackets")

	res, err := cli.ParseString("instance info [1,2,3,4]")
	assert.Nil(t, err)
	assert.Equal(t, []interface{}{"1", "2", "3", "4"}, nsGet(t, res, "instance.info.item"))

	res, err = cli.ParseString("instance info []")
	assert.Nil(t, err)
	assert.Len(t, nsGet(t, res, "instance.info.item"), 0)

	res, err = cli.ParseString("instance info [6, 4, \"999 jjj\", \"kuku\"]")
	assert.Nil(t, err)
	assert.Equal(t, []interface{}{"6", "4", "999 jjj", "kuku"}, nsGet(t, res, "instance.info.item"))

	res, err = cli.ParseString("instance info [6, 9] --ids [4, 5]")
	assert.Nil(t, err)
	assert.Equal(t, []interface{}{int64(4), int64(5)}, nsGet(t, res, "instance.info.ids"))

	_, err = cli.ParseString("instance info [6, 9] --complex [4, 5]")
	assert.ErrorIs(t, err, ErrArgumentType)

	res, err = cli.ParseString("instance info [6, 9] --complex [[4, 5], [6,4,8], [4,5]]")
	assert.Nil(t, err)
	nested := nsGet(t, res, "instance.info.complex").([]interface{})
	assert.Len(t, nested, 3)
	assert.Equal(t, []interface{}{int64(6), int64(4), int64(8)}, nested[1])
}

func TestParser_StructValues(t *testing.T) {
	cli := demoTree(t)

	res, err := cli.ParseString("instance info [7] --cred { password = 'this is me', user = me, userid = 8}")
	assert.Nil(t, err)
	cred := nsGet(t, res, "instance.info.cred").(*Namespace)
	pw, _ := cred.Get("password")
	assert.Equal(t, "this is me", pw)
	id, _ := cred.Get("userid")
	assert.Equal(t, int64(8), id)

	_, err = cli.ParseString("instance info [7] --cred { password = p, stam = kuku}")
	assert.ErrorIs(t, err, ErrArgumentKey)

	res, err = cli.ParseString("instance set { password = 'this is me', user = me, userid = 8}")
	assert.Nil(t, err)
	v, ok := res.Args().Get("cred")
	assert.True(t, ok)
	user, _ := v.(*Namespace).Get("user")
	assert.Equal(t, "me", user)

	res, err = cli.ParseString("instance info [6, 9] --complexstar [ {key1 = bobo, key2 = 6 }, { key2 = 8, key3 = [ 5, 67, 0] } ]")
	assert.Nil(t, err)
	records := nsGet(t, res, "instance.info.complexstar").([]interface{})
	assert.Len(t, records, 2)
	k3, _ := records[1].(*Namespace).Get("key3")
	assert.Equal(t, []interface{}{int64(5), int64(67), int64(0)}, k3)
}

func TestParser_NoCommandHandler(t *testing.T) {
	cli := demoTree(t, WithNoCommandHandler(func(g *Group) error {
		return nil
	}))

	res, err := cli.ParseString("class")
	assert.Nil(t, err, "a nil-returning handler makes a command optional")
	assert.Nil(t, res.Command())
	assert.Equal(t, "", res.CommandName())
	assert.Equal(t, "class", res.Group().Name())
}

func TestParser_QuietNoCommand(t *testing.T) {
	var buf bytes.Buffer
	cli, err := NewParser("svc", "", WithStderr(&buf), WithStdout(io.Discard),
		WithNoCommandHandler(QuietNoCommand()))
	assert.Nil(t, err)
	_, err = cli.AddCommand("list", "")
	assert.Nil(t, err)

	_, err = cli.ParseString("")
	assert.ErrorIs(t, err, ErrNoCommand)
	assert.Equal(t, "", buf.String(), "the quiet handler should not render usage")
}

func TestParser_GroupNoCommandOverride(t *testing.T) {
	cli := quietParser(t)
	_, err := cli.AddGroup("free", "", WithGroupNoCommand(nil))
	assert.Nil(t, err)

	res, err := cli.ParseString("free")
	assert.Nil(t, err)
	assert.Nil(t, res.Command())
	assert.Equal(t, "free", res.Group().FullName("."))

	_, err = cli.ParseString("")
	assert.ErrorIs(t, err, ErrNoCommand, "the root keeps the default handler")
}

func TestParser_Parse(t *testing.T) {
	cli := demoTree(t)

	res, err := cli.Parse([]string{"class", "new", "newclass", "8"})
	assert.Nil(t, err)
	assert.Equal(t, "class.new", res.CommandName())

	res, err = cli.ParsePartial([]string{"class", "new", "newclass", "8", "extra"})
	assert.Nil(t, err)
	assert.Equal(t, []string{"extra"}, res.Unparsed())

	_, err = cli.ParseString("two {{x}")
	assert.NotNil(t, err, "an unbalanced command line should fail tokenization")
}

func TestParser_ResultString(t *testing.T) {
	cli := demoTree(t)

	res, err := cli.ParseString("class list")
	assert.Nil(t, err)
	assert.Contains(t, res.String(), "class.list")
	assert.Contains(t, res.String(), "class.list.format: def")
}

func TestParser_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	cli, err := NewParser("svc", "service tool",
		WithStdout(&buf), WithStderr(io.Discard), WithHelpWidth(100))
	assert.Nil(t, err)
	_, err = cli.AddCommand("list", "list everything")
	assert.Nil(t, err)

	_, err = cli.ParseString("--help")
	assert.ErrorIs(t, err, ErrHelpRequested)
	out := buf.String()
	assert.Contains(t, out, "Usage: svc")
	assert.Contains(t, out, "-h|--help")
	assert.Contains(t, out, "list everything")
}
