// Command mlcli-demo exercises the parser against a two-level service
// management tree. Run it with a command line such as:
//
//	mlcli-demo -q class new gold 10 -x 9 --min_units 7
//	mlcli-demo instance info [6, 9] --cred { user = me, userid = 8 }
//	mlcli-demo tree
package main

import (
	"errors"
	"fmt"
	"os"

	mlcli "github.com/multilevelcli/mlcli"
)

func declare() (*mlcli.Parser, error) {
	cli, err := mlcli.NewParser("mlcli-demo", "service class and instance management")
	if err != nil {
		return nil, err
	}

	if _, err := cli.AddOption("t", "treelevels",
		mlcli.WithType(mlcli.Int()),
		mlcli.WithDefault(7),
		mlcli.WithDescription("max tree levels to process")); err != nil {
		return nil, err
	}
	if _, err := cli.AddOption("q", "quiet",
		mlcli.WithDescription("do not emit messages")); err != nil {
		return nil, err
	}
	if _, err := cli.AddCommand("list", "list everything"); err != nil {
		return nil, err
	}
	if _, err := cli.AddCommand("tree", "show the declaration tree"); err != nil {
		return nil, err
	}

	class, err := cli.AddGroup("class", "service class management")
	if err != nil {
		return nil, err
	}
	if _, err := class.AddOption("t", "trim",
		mlcli.WithDescription("trim the results")); err != nil {
		return nil, err
	}

	classNew, err := class.AddCommand("new", "create a new service class")
	if err != nil {
		return nil, err
	}
	if _, err := classNew.AddArgument("name", nil, "name of the new class"); err != nil {
		return nil, err
	}
	if _, err := classNew.AddArgument("capacity_unit", mlcli.Int(), "size of a capacity unit in GB"); err != nil {
		return nil, err
	}
	if _, err := classNew.AddOption("x", "max_units",
		mlcli.WithType(mlcli.Int()),
		mlcli.WithDefault(10),
		mlcli.WithDescription("maximal number of capacity units")); err != nil {
		return nil, err
	}
	if _, err := classNew.AddOption("m", "min_units",
		mlcli.WithType(mlcli.Int()),
		mlcli.WithDefault(3),
		mlcli.WithDescription("minimal number of capacity units")); err != nil {
		return nil, err
	}

	classList, err := class.AddCommand("list", "list service classes")
	if err != nil {
		return nil, err
	}
	if _, err := classList.AddOption("l", "",
		mlcli.WithDescription("use long listing format")); err != nil {
		return nil, err
	}
	if _, err := classList.AddOption("", "format",
		mlcli.WithType(mlcli.String()),
		mlcli.WithDefault("def"),
		mlcli.WithDescription("use the specified format")); err != nil {
		return nil, err
	}
	if _, err := class.AddCommand("delete", "delete a service class"); err != nil {
		return nil, err
	}

	instance, err := cli.AddGroup("instance", "service instance management")
	if err != nil {
		return nil, err
	}

	instNew, err := instance.AddCommand("new", "create a new instance")
	if err != nil {
		return nil, err
	}
	if _, err := instNew.AddArgument("name", nil, "name of the new instance"); err != nil {
		return nil, err
	}
	if _, err := instNew.AddArgument("type", nil, "service class of the new instance"); err != nil {
		return nil, err
	}
	if _, err := instNew.AddArgument("size", mlcli.Int(), "instance size in capacity units"); err != nil {
		return nil, err
	}
	if _, err := instNew.AddOption("l", "log",
		mlcli.WithType(mlcli.Int()),
		mlcli.WithDefault(5),
		mlcli.WithDescription("log level")); err != nil {
		return nil, err
	}

	instInfo, err := instance.AddCommand("info", "show instance details")
	if err != nil {
		return nil, err
	}
	if _, err := instInfo.AddArgument("item", mlcli.ListOf(mlcli.String()), "instance ids"); err != nil {
		return nil, err
	}
	if _, err := instInfo.AddOption("", "ids",
		mlcli.WithType(mlcli.ListOf(mlcli.Int())),
		mlcli.WithDescription("restrict to the given ids")); err != nil {
		return nil, err
	}
	if _, err := instInfo.AddOption("", "cred",
		mlcli.WithType(mlcli.StructOf(
			mlcli.Field{Name: "password", Type: mlcli.String()},
			mlcli.Field{Name: "user", Type: mlcli.String()},
			mlcli.Field{Name: "userid", Type: mlcli.Int()},
		)),
		mlcli.WithDescription("access credentials")); err != nil {
		return nil, err
	}

	instSet, err := instance.AddCommand("set", "set instance credentials",
		mlcli.WithContext("instance-set"))
	if err != nil {
		return nil, err
	}
	if _, err := instSet.AddArgument("cred", mlcli.StructOf(
		mlcli.Field{Name: "password", Type: mlcli.String()},
		mlcli.Field{Name: "user", Type: mlcli.String()},
		mlcli.Field{Name: "userid", Type: mlcli.Int()},
	), "credentials to apply"); err != nil {
		return nil, err
	}

	instResize, err := instance.AddCommand("resize", "resize an instance")
	if err != nil {
		return nil, err
	}
	if _, err := instResize.AddOption("", "force",
		mlcli.WithDescription("force resize")); err != nil {
		return nil, err
	}

	return cli, nil
}

func run(cli *mlcli.Parser, res *mlcli.Result) error {
	quiet, _ := res.Ns().Get("quiet")
	switch res.CommandName() {
	case "tree":
		cli.ShowTree(os.Stdout)
	case "list":
		fmt.Println("classes: gold silver bronze")
	case "class.new":
		fmt.Printf("creating class %v (unit %vGB, %v..%v units)\n",
			get(res, "class.new.name"), get(res, "class.new.capacity_unit"),
			get(res, "class.new.min_units"), get(res, "class.new.max_units"))
	case "class.list":
		fmt.Printf("class listing, format %v\n", get(res, "class.list.format"))
	case "class.delete":
		fmt.Println("class deleted")
	case "instance.new":
		fmt.Printf("creating instance %v of class %v, size %v\n",
			get(res, "instance.new.name"), get(res, "instance.new.type"),
			get(res, "instance.new.size"))
	case "instance.info":
		fmt.Printf("info for %v (cred %v)\n",
			get(res, "instance.info.item"), get(res, "instance.info.cred"))
	case "instance.set":
		fmt.Printf("applying %v (ctx %v)\n", get(res, "instance.set.cred"), res.Context())
	case "instance.resize":
		fmt.Printf("resize, force=%v\n", get(res, "instance.resize.force"))
	default:
		return fmt.Errorf("command %q not implemented", res.CommandName())
	}
	if b, ok := quiet.(bool); !ok || !b {
		fmt.Printf("parsed: %v\n", res.Ns())
	}
	return nil
}

func get(res *mlcli.Result, key string) interface{} {
	v, _ := res.Ns().Get(key)
	return v
}

func main() {
	cli, err := declare()
	if err != nil {
		fmt.Fprintf(os.Stderr, "declaration error: %v\n", err)
		os.Exit(2)
	}

	res, err := cli.ParseArgs()
	if err != nil {
		if errors.Is(err, mlcli.ErrHelpRequested) {
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if err := run(cli, res); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
