package commands

import (
	"strings"

	"github.com/urfave/cli/v2"
)

func PrintCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "print",
		Args:      true,
		ArgsUsage: "<key>...",
		Usage:     "insert keys in order and draw the resulting tree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "style",
				Aliases: []string{"s"},
				Usage:   "matrix or sideways, defaults to render.style",
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() == 0 {
				return cli.ShowSubcommandHelp(ctx)
			}
			runner, tm, err := e.newRunner(ctx.Context, ctx.App.Writer)
			if err != nil {
				return err
			}
			defer tm.Close()

			if err = runner.Exec(ctx.Context,
				"insert "+strings.Join(ctx.Args().Slice(), " ")); err != nil {
				return err
			}
			return runner.Exec(ctx.Context, "print "+ctx.String("style"))
		},
	}
}
