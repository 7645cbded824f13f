package commands

import (
	"io"
	"os"
	"runtime/debug"

	"github.com/dslab/avl/internal/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// env is filled in by the app's Before hook and shared by every command.
type env struct {
	version string
	conf    *config.AVLConfig
	logger  *zap.Logger
	stdin   io.Reader
	// open reads exec scripts; nil means os.Open.
	open func(name string) (io.ReadCloser, error)
}

func Run(version string) error {
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		bv := buildInfo.Main.Version
		if bv != "" && bv != "(devel)" {
			version = buildInfo.Main.Version
		}
	}
	return NewApp(version, os.Stdin, os.Stdout, os.Stderr).Run(os.Args)
}

func NewApp(version string, stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	e := &env{version: version, stdin: stdin}
	return &cli.App{
		Name:      "avl-cli",
		Usage:     "build and benchmark AVL trees from the command line",
		Version:   version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"AVL_CONFIG_PATH"},
				Usage:   "path to config file",
			},
			&cli.BoolFlag{
				Name:        "verbose",
				DefaultText: "false",
				Aliases:     []string{"V"},
				Usage:       "enable verbose logging",
			},
		},
		Before: func(ctx *cli.Context) (err error) {
			if e.conf, err = config.LoadConfig(ctx.String("config")); err != nil {
				return err
			}
			if ctx.Bool("verbose") {
				e.conf.LogLevel = "debug"
			}
			e.logger, err = e.conf.GetLogger()
			return err
		},
		After: func(ctx *cli.Context) error {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
			return nil
		},
		Action: func(ctx *cli.Context) error {
			return ctx.App.Command("help").Run(ctx)
		},
		Commands: []*cli.Command{
			ShellCommand(e),
			ExecCommand(e),
			PrintCommand(e),
			BenchCommand(e),
		},
	}
}
