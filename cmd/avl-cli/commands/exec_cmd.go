package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dslab/avl/internal/shell"
	"github.com/urfave/cli/v2"
)

func ExecCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Args:      true,
		ArgsUsage: "[file|-]...",
		Usage:     "run command scripts against one tree, stopping at the first error",
		Action: func(ctx *cli.Context) error {
			runner, tm, err := e.newRunner(ctx.Context, ctx.App.Writer)
			if err != nil {
				return err
			}
			defer tm.Close()

			scripts := ctx.Args().Slice()
			if len(scripts) == 0 {
				scripts = []string{"-"}
			}
			for _, name := range scripts {
				if err := e.runScript(ctx.Context, runner, name); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		},
	}
}

// runScript runs one script, "-" meaning stdin, and closes it before
// returning.
func (e *env) runScript(ctx context.Context, runner shell.Runner, name string) error {
	if name == "-" {
		return runner.Run(ctx, e.stdin, false)
	}
	open := e.open
	if open == nil {
		open = openFile
	}
	f, err := open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return runner.Run(ctx, f, false)
}

func openFile(name string) (io.ReadCloser, error) {
	return os.Open(name)
}
