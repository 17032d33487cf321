package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/codec"
	"github.com/rubiojr/exprdoc/document"
	"github.com/rubiojr/exprdoc/equality"
)

func fromFlag() cli.Flag {
	return &cli.StringFlag{Name: "from", Usage: "Input format, defaults to the file extension"}
}

func toFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "Output format"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file, stdout by default"},
	}
}

func (e *env) sampleCommand() *cli.Command {
	return &cli.Command{
		Name:      "sample",
		Usage:     "Write a built-in sample tree as a document",
		ArgsUsage: "[name]",
		Flags:     toFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				fmt.Fprintln(e.out, strings.Join(sampleNames(), "\n"))
				return nil
			}
			n, err := sample(cmd.Args().First())
			if err != nil {
				return err
			}
			return e.emit(cmd, n)
		},
	}
}

func sample(name string) (ast.Node, error) {
	build, ok := samples[name]
	if !ok {
		return nil, fmt.Errorf("unknown sample %q (have %s)", name, strings.Join(sampleNames(), ", "))
	}
	return build(ast.NewFactory()), nil
}

// emit encodes n in the --to format and writes it to --output.
func (e *env) emit(cmd *cli.Command, n ast.Node) error {
	out := cmd.String("output")
	f, err := e.formatFor(cmd.String("to"), out)
	if err != nil {
		return err
	}
	data, err := e.encode(n, f)
	if err != nil {
		return err
	}
	return e.write(out, data)
}

func (e *env) convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Decode a document and write it in another format",
		ArgsUsage: "<file|->",
		Flags:     append([]cli.Flag{fromFlag()}, toFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("usage: exprdoc convert [--from fmt] [--to fmt] [-o out] <file|->")
			}
			n, err := e.decodeFile(cmd.Args().First(), cmd.String("from"))
			if err != nil {
				return err
			}
			return e.emit(cmd, n)
		},
	}
}

func (e *env) printCommand() *cli.Command {
	return &cli.Command{
		Name:      "print",
		Usage:     "Print the tree stored in a document as an expression",
		ArgsUsage: "<file|->",
		Flags:     []cli.Flag{fromFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("usage: exprdoc print <file|->")
			}
			n, err := e.decodeFile(cmd.Args().First(), cmd.String("from"))
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, ast.Print(n))
			return nil
		},
	}
}

func (e *env) roundtripCommand() *cli.Command {
	return &cli.Command{
		Name:      "roundtrip",
		Usage:     "Encode and decode a tree in every format and compare the results",
		ArgsUsage: "<file|-> | --sample name",
		Flags: []cli.Flag{
			fromFlag(),
			&cli.StringFlag{Name: "sample", Aliases: []string{"s"}, Usage: "Use a built-in sample tree"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var (
				n   ast.Node
				err error
			)
			switch {
			case cmd.String("sample") != "":
				n, err = sample(cmd.String("sample"))
			case cmd.NArg() == 1:
				n, err = e.decodeFile(cmd.Args().First(), cmd.String("from"))
			default:
				return fmt.Errorf("usage: exprdoc roundtrip <file|-> | --sample name")
			}
			if err != nil {
				return err
			}
			return e.roundtrip(n)
		},
	}
}

func (e *env) roundtrip(n ast.Node) error {
	failed := 0
	for _, name := range document.Formats() {
		f, err := document.FormatFor(name)
		if err != nil {
			return err
		}
		res, err := e.roundtripOne(n, f)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(e.out, "%-5s FAIL %v\n", name, err)
		case !res.Equal:
			failed++
			fmt.Fprintf(e.out, "%-5s FAIL %s\n", name, res.Difference)
		default:
			fmt.Fprintf(e.out, "%-5s ok   %d items\n", name, res.Compared)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d formats did not round trip", failed, len(document.Formats()))
	}
	return nil
}

func (e *env) roundtripOne(n ast.Node, f document.Format) (equality.Result, error) {
	data, err := e.encode(n, f)
	if err != nil {
		return equality.Result{}, err
	}
	back, err := codec.Unmarshal(e.reg, e.opts, f, data)
	if err != nil {
		return equality.Result{}, err
	}
	return equality.Compare(n, back), nil
}
