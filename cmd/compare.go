package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/equality"
)

// ErrTreesDiffer is returned by equal and diff when the trees differ.
var ErrTreesDiffer = errors.New("trees differ")

func (e *env) decodePair(cmd *cli.Command) (ast.Node, ast.Node, error) {
	if cmd.NArg() != 2 {
		return nil, nil, fmt.Errorf("usage: exprdoc %s <a> <b>", cmd.Name)
	}
	from := cmd.String("from")
	a, err := e.decodeFile(cmd.Args().Get(0), from)
	if err != nil {
		return nil, nil, err
	}
	b, err := e.decodeFile(cmd.Args().Get(1), from)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (e *env) equalCommand() *cli.Command {
	return &cli.Command{
		Name:      "equal",
		Usage:     "Compare two documents structurally and report the first difference",
		ArgsUsage: "<a> <b>",
		Flags: []cli.Flag{
			fromFlag(),
			&cli.BoolFlag{Name: "strict", Usage: "Also compare debug info and other skipped nodes"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, b, err := e.decodePair(cmd)
			if err != nil {
				return err
			}
			skip := equality.Predicate(equality.DefaultSkip)
			if cmd.Bool("strict") {
				skip = nil
			}
			res := equality.CompareWith(a, b, skip)
			if !res.Equal {
				fmt.Fprintln(e.out, res.Difference)
				return ErrTreesDiffer
			}
			fmt.Fprintf(e.out, "equal (%d items)\n", res.Compared)
			return nil
		},
	}
}

func (e *env) diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Show a unified diff of two documents in canonical form",
		ArgsUsage: "<a> <b>",
		Flags: []cli.Flag{
			fromFlag(),
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "Format the documents are rendered in"},
			&cli.BoolFlag{Name: "no-color", Aliases: []string{"C"}, Usage: "Disable ANSI color output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, b, err := e.decodePair(cmd)
			if err != nil {
				return err
			}
			f, err := e.formatFor(cmd.String("to"), "")
			if err != nil {
				return err
			}
			left, err := e.encode(a, f)
			if err != nil {
				return err
			}
			right, err := e.encode(b, f)
			if err != nil {
				return err
			}
			diff := udiff.Unified(cmd.Args().Get(0), cmd.Args().Get(1), string(left), string(right))
			if diff == "" {
				return nil
			}
			fmt.Fprint(e.out, colorize(diff, e.useColor(cmd.Bool("no-color"))))
			return ErrTreesDiffer
		},
	}
}

// useColor reports whether output goes to a terminal that wants color.
func (e *env) useColor(disabled bool) bool {
	if disabled || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := e.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

const (
	colorAdd   = "\033[32m"
	colorDel   = "\033[31m"
	colorHunk  = "\033[36m"
	colorReset = "\033[0m"
)

func colorize(diff string, color bool) string {
	if !color {
		return diff
	}
	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			sb.WriteString(l)
		case strings.HasPrefix(l, "+"):
			sb.WriteString(colorAdd + strings.TrimSuffix(l, "\n") + colorReset + "\n")
		case strings.HasPrefix(l, "-"):
			sb.WriteString(colorDel + strings.TrimSuffix(l, "\n") + colorReset + "\n")
		case strings.HasPrefix(l, "@@"):
			sb.WriteString(colorHunk + strings.TrimSuffix(l, "\n") + colorReset + "\n")
		default:
			sb.WriteString(l)
		}
	}
	return sb.String()
}
