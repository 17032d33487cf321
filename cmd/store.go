package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/exprdoc/codec"
	"github.com/rubiojr/exprdoc/store"
)

func (e *env) storeCommand() *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Keep encoded documents in a local database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "Database file, defaults to the store setting"},
		},
		Commands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "Decode a document and store it under a name",
				ArgsUsage: "<name> <file|->",
				Flags:     []cli.Flag{fromFlag()},
				Action: e.withStore(func(cmd *cli.Command, s *store.Store) error {
					if cmd.NArg() != 2 {
						return fmt.Errorf("usage: exprdoc store put <name> <file|->")
					}
					n, err := e.decodeFile(cmd.Args().Get(1), cmd.String("from"))
					if err != nil {
						return err
					}
					// Re-encode so the stored form is canonical.
					doc, err := codec.NewEncoder(e.reg, e.opts).Encode(n)
					if err != nil {
						return err
					}
					digest, err := s.Put(cmd.Args().Get(0), doc)
					if err != nil {
						return err
					}
					fmt.Fprintf(e.out, "%s %s\n", digest, cmd.Args().Get(0))
					return nil
				}),
			},
			{
				Name:      "get",
				Usage:     "Write a stored document",
				ArgsUsage: "<name>",
				Flags:     toFlags(),
				Action: e.withStore(func(cmd *cli.Command, s *store.Store) error {
					if cmd.NArg() != 1 {
						return fmt.Errorf("usage: exprdoc store get <name>")
					}
					doc, err := s.Get(cmd.Args().First())
					if err != nil {
						return err
					}
					n, err := codec.NewDecoder(e.reg, e.opts).Decode(doc)
					if err != nil {
						return err
					}
					return e.emit(cmd, n)
				}),
			},
			{
				Name:  "list",
				Usage: "List stored documents",
				Action: e.withStore(func(cmd *cli.Command, s *store.Store) error {
					entries, err := s.List()
					if err != nil {
						return err
					}
					for _, entry := range entries {
						fmt.Fprintf(e.out, "%s %8d %s\n", entry.Digest, entry.Size, entry.Name)
					}
					return nil
				}),
			},
			{
				Name:      "rm",
				Usage:     "Delete stored documents",
				ArgsUsage: "<name>...",
				Action: e.withStore(func(cmd *cli.Command, s *store.Store) error {
					if cmd.NArg() == 0 {
						return fmt.Errorf("usage: exprdoc store rm <name>...")
					}
					for _, name := range cmd.Args().Slice() {
						if err := s.Delete(name); err != nil {
							return err
						}
					}
					return nil
				}),
			},
		},
	}
}

// withStore opens the database for the duration of fn.
func (e *env) withStore(fn func(*cli.Command, *store.Store) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.String("db")
		if path == "" {
			path = e.cfg.Store
		}
		e.log.Debug("opening store", "path", path)
		s, err := store.Open(path)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, s)
	}
}
