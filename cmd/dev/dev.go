// Package dev implements introspection subcommands for exprdoc.
package dev

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/ident"
	"github.com/rubiojr/exprdoc/typereg"
	"github.com/rubiojr/exprdoc/vocab"
)

// Command returns the "dev" CLI command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Inspect the document vocabulary and type table",
		Commands: []*cli.Command{
			kindsCommand(),
			namesCommand(),
			typesCommand(),
		},
	}
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func conventionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "case",
		Usage: "Render names in this identifier convention",
		Value: "preserve",
	}
}

func kindsCommand() *cli.Command {
	return &cli.Command{
		Name:  "kinds",
		Usage: "List node kinds and whether they serialize",
		Flags: []cli.Flag{conventionFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := ident.ParseConvention(cmd.String("case"))
			if err != nil {
				return err
			}
			w := writer(cmd)
			for _, nt := range ast.NodeTypes() {
				note := ""
				switch nt {
				case ast.DebugInfo, ast.Dynamic, ast.RuntimeVariables:
					note = " (not serializable)"
				}
				fmt.Fprintf(w, "%s%s\n", vocab.Name(vocab.Kind(nt), c), note)
			}
			return nil
		},
	}
}

func namesCommand() *cli.Command {
	return &cli.Command{
		Name:  "names",
		Usage: "List every element and attribute name",
		Flags: []cli.Flag{conventionFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := ident.ParseConvention(cmd.String("case"))
			if err != nil {
				return err
			}
			w := writer(cmd)
			for _, n := range vocab.Names() {
				fmt.Fprintln(w, vocab.Name(n, c))
			}
			return nil
		},
	}
}

func typesCommand() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List the standard type table",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg := typereg.New()
			w := writer(cmd)
			for _, name := range typereg.SeedNames() {
				t, err := reg.TypeFor(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%-10s %-12s %s\n", name, typereg.Classify(t), t)
			}
			return nil
		},
	}
}
