package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dslab/avl/internal/shell"
	"github.com/dslab/avl/internal/telemetry"
	"github.com/dslab/avl/pkg/render"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func ShellCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"repl"},
		Usage:   "run commands against a tree read from stdin",
		Action: func(ctx *cli.Context) error {
			runner, tm, err := e.newRunner(ctx.Context, ctx.App.Writer)
			if err != nil {
				return err
			}
			defer tm.Close()

			sigCtx, stop := signal.NotifyContext(ctx.Context,
				os.Interrupt, syscall.SIGTERM)
			defer stop()
			group, groupCtx := errgroup.WithContext(sigCtx)
			runCtx, cancel := context.WithCancel(groupCtx)
			defer cancel()

			if e.conf.Metrics != nil {
				provider, registry, err := telemetry.NewProvider()
				if err != nil {
					return err
				}
				defer provider.Shutdown(context.Background())
				if err = tm.Setup(e.conf, runner.Height); err != nil {
					return err
				}
				router := telemetry.Router(e.version, registry, e.conf.Debug)
				group.Go(func() error {
					return telemetry.Serve(runCtx, e.conf.Metrics,
						router, e.logger.Named("metrics"))
				})
			}

			group.Go(func() error {
				defer cancel()
				interactive := isTerminal(e.stdin)
				e.logger.Debug("shell started",
					zap.String("session", runner.ID()),
					zap.Bool("interactive", interactive),
				)
				return runner.Run(runCtx, e.stdin, interactive)
			})
			return cleanExit(sigCtx, group.Wait())
		},
	}
}

// cleanExit drops the cancellation error caused by an interrupt so that
// Ctrl-C ends the shell like quit does.
func cleanExit(sigCtx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && sigCtx.Err() != nil {
		return nil
	}
	return err
}

// newRunner builds a shell for the configured key type and loads the
// configured preload keys into it.
func (e *env) newRunner(ctx context.Context, out io.Writer) (shell.Runner, *telemetry.Telemetry, error) {
	tm := telemetry.NewTreeMetrics()
	runner, err := shell.NewForKeyType(e.conf.Tree.KeyType, shell.Options{
		Out:             out,
		Logger:          e.logger.Named("shell"),
		Recorder:        tm,
		Style:           render.Style(e.conf.Render.Style),
		CheckInvariants: e.conf.Tree.CheckInvariants,
		Capacity:        e.conf.Tree.Capacity,
	})
	if err != nil {
		return nil, nil, err
	}
	if err = runner.Preload(ctx, e.conf.Tree.Preload); err != nil {
		return nil, nil, err
	}
	return runner, tm, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
