// Package cmd implements the exprdoc command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/exprdoc/cmd/dev"
	"github.com/rubiojr/exprdoc/codec"
	"github.com/rubiojr/exprdoc/config"
	"github.com/rubiojr/exprdoc/document"
	"github.com/rubiojr/exprdoc/typereg"
)

// Execute runs the exprdoc CLI with the given version string.
func Execute(version string) {
	if err := New(version).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is the state shared by every subcommand, filled in by the root
// command's Before hook.
type env struct {
	cfg    config.Config
	reg    *typereg.Registry
	opts   codec.Options
	format document.Format
	log    *slog.Logger
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// New builds the command tree. Each call gets its own state, so tests can
// run several instances side by side.
func New(version string) *cli.Command {
	e := &env{}
	return &cli.Command{
		Name:    "exprdoc",
		Usage:   "Serialize expression trees to JSON, XML and YAML documents",
		Version: version,
		Description: heredoc.Doc(`
			exprdoc converts expression tree documents between formats, checks
			that documents decode, and compares trees structurally.

			Settings are read from settings.toml or settings.json in the
			configuration directory ($EXPRDOC_CONFIG_DIR overrides it), or from
			the file given with --config. Flags override settings.
		`),
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Settings file (TOML or JSON)",
				Sources: cli.EnvVars("EXPRDOC_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log debug messages to stderr",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Default document format (json, xml, yaml)",
			},
			&cli.StringFlag{
				Name:  "identifiers",
				Usage: "Naming convention for member names (camel, pascal, snake, kebab, ...)",
			},
			&cli.StringFlag{
				Name:  "members",
				Usage: "Struct fields written for custom types (public, private, all)",
			},
		},
		Before: e.setup,
		Commands: []*cli.Command{
			e.sampleCommand(),
			e.convertCommand(),
			e.printCommand(),
			e.checkCommand(),
			e.roundtripCommand(),
			e.equalCommand(),
			e.diffCommand(),
			e.storeCommand(),
			dev.Command(),
		},
	}
}

func (e *env) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e.in, e.out, e.errOut = cmd.Reader, cmd.Writer, cmd.ErrWriter
	if e.in == nil {
		e.in = os.Stdin
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	if e.errOut == nil {
		e.errOut = os.Stderr
	}
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	e.log = slog.New(slog.NewTextHandler(e.errOut, &slog.HandlerOptions{Level: level}))

	cfg, handle, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	e.log.Debug("config loaded", "path", handle.Path, "format", handle.Format)

	if v := cmd.String("format"); v != "" {
		cfg.Format = v
	}
	if v := cmd.String("identifiers"); v != "" {
		cfg.Identifiers = v
	}
	if v := cmd.String("members"); v != "" {
		cfg.Members = v
	}
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}
	e.cfg = cfg
	if e.reg, err = cfg.Registry(); err != nil {
		return ctx, err
	}
	if e.opts, err = cfg.Options(); err != nil {
		return ctx, err
	}
	if e.format, err = cfg.DocumentFormat(); err != nil {
		return ctx, err
	}
	e.log.Debug("settings",
		"format", e.format.Name(),
		"identifiers", e.opts.Identifiers,
		"members", e.opts.Members,
		"type_names", e.reg.Style(),
		"max_depth", e.opts.MaxDepth)
	return ctx, nil
}

