package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/document"
)

func (e *env) checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check that documents decode",
		ArgsUsage: "[file | directory]...",
		Flags: []cli.Flag{
			fromFlag(),
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Files decoded in parallel",
				Value:   1,
			},
			&cli.BoolFlag{
				Name:  "lint",
				Usage: "Also require bound parameters and defined jump labels",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only report failures",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			targets := cmd.Args().Slice()
			if len(targets) == 0 {
				targets = []string{"."}
			}
			files, err := collectDocuments(targets)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no documents found")
			}
			var checks ast.CheckChain
			if cmd.Bool("lint") {
				checks = ast.CheckChain{ast.BoundParameters{}, ast.DefinedLabels{}}
			}
			return e.check(files, cmd.String("from"), checks, int(cmd.Int("jobs")), cmd.Bool("quiet"))
		},
	}
}

// collectDocuments expands directories to the files in them that have a
// known document extension. Files named explicitly are kept as given.
func collectDocuments(targets []string) ([]string, error) {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", target, err)
		}
		if !info.IsDir() {
			files = append(files, target)
			continue
		}
		entries, err := os.ReadDir(target)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", target, err)
		}
		for _, entry := range entries {
			path := filepath.Join(target, entry.Name())
			if entry.IsDir() {
				continue
			}
			if _, err := document.FormatForPath(path); err == nil {
				files = append(files, path)
			}
		}
	}
	return files, nil
}

type checkResult struct {
	node ast.Node
	err  error
}

// check decodes files on up to jobs goroutines, runs checks on each tree
// and reports the results in file order.
func (e *env) check(files []string, from string, checks ast.CheckChain, jobs int, quiet bool) error {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]checkResult, len(files))
	work := make(chan int, len(files))
	for i := range files {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for range min(jobs, len(files)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				n, err := e.decodeFile(files[i], from)
				if err == nil {
					if err = checks.Run(n); err != nil {
						err = fmt.Errorf("%s: %w", files[i], err)
					}
				}
				results[i] = checkResult{node: n, err: err}
			}
		}()
	}
	wg.Wait()

	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(e.out, "FAIL %v\n", r.err)
			continue
		}
		if !quiet {
			fmt.Fprintf(e.out, "ok   %s  %s\n", files[i], r.node.Type())
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to decode", failed, len(files))
	}
	return nil
}
