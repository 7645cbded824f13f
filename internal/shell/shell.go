// Package shell runs line oriented commands against a single avl.Tree.
package shell

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dslab/avl/internal/config"
	"github.com/dslab/avl/pkg/avl"
	"github.com/dslab/avl/pkg/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const Prompt = "avl> "

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadKey         = errors.New("bad key")
	ErrUnknownKeyType = errors.New("unknown key type")

	errQuit = errors.New("quit")
)

// Recorder receives one call per tree operation and one per rotation.
type Recorder interface {
	MeasureOperation(ctx context.Context, op string, start time.Time, err error)
	MeasureRotation(ctx context.Context, kind avl.Rotation)
}

type Options struct {
	Out      io.Writer
	Logger   *zap.Logger
	Recorder Recorder
	Style    render.Style
	// CheckInvariants validates the whole tree after every mutation.
	CheckInvariants bool
	Capacity        int
}

// Runner is the key type independent view of a Shell.
type Runner interface {
	Exec(ctx context.Context, line string) error
	Run(ctx context.Context, in io.Reader, interactive bool) error
	Preload(ctx context.Context, keys []string) error
	Height() int
	Len() int
	ID() string
}

type Shell[K cmp.Ordered] struct {
	mu              sync.Mutex
	id              string
	tree            *avl.Tree[K]
	parse           func(string) (K, error)
	out             io.Writer
	logger          *zap.Logger
	rec             Recorder
	style           render.Style
	checkInvariants bool
	rotations       []avl.Rotation
}

var _ Runner = (*Shell[int])(nil)

func New[K cmp.Ordered](parse func(string) (K, error), opts Options) *Shell[K] {
	s := &Shell[K]{
		id:              uuid.NewString(),
		parse:           parse,
		out:             opts.Out,
		rec:             opts.Recorder,
		style:           opts.Style,
		checkInvariants: opts.CheckInvariants,
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.rec == nil {
		s.rec = nopRecorder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger.With(zap.String("session", s.id))
	s.tree = avl.New(
		avl.WithCapacity[K](opts.Capacity),
		avl.WithRotationHook(func(r avl.Rotation, pivot K) {
			s.rotations = append(s.rotations, r)
			s.logger.Debug("rotation",
				zap.Stringer("kind", r),
				zap.Any("pivot", pivot),
			)
		}),
	)
	return s
}

// NewForKeyType builds a Shell whose keys are parsed as kind.
func NewForKeyType(kind config.KeyType, opts Options) (Runner, error) {
	switch kind {
	case config.KeyTypeInt, "":
		return New(ParseInt, opts), nil
	case config.KeyTypeFloat:
		return New(ParseFloat, opts), nil
	case config.KeyTypeString:
		return New(ParseString, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyType, kind)
	}
}

func (s *Shell[K]) ID() string {
	return s.id
}

// Tree returns the session tree. Callers must not use it concurrently
// with Exec.
func (s *Shell[K]) Tree() *avl.Tree[K] {
	return s.tree
}

func (s *Shell[K]) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Height()
}

func (s *Shell[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Len()
}

// Preload inserts keys without printing anything.
func (s *Shell[K]) Preload(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insert(ctx, keys); err != nil {
		return fmt.Errorf("preload: %w", err)
	}
	s.logger.Info("preloaded keys",
		zap.Int("count", len(keys)),
		zap.Int("height", s.tree.Height()),
	)
	return nil
}

// Exec runs a single command line.
func (s *Shell[K]) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	cmd, ok := lookup(fields[0])
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	args := fields[1:]
	if len(args) < cmd.minArgs {
		return fmt.Errorf("%s: expected at least %d argument(s), usage: %s",
			cmd.name, cmd.minArgs, cmd.usage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return cmd.run(s, ctx, args)
}

// Run executes commands read from in until EOF, quit or ctx is done.
// Interactive runs print a prompt and report errors without stopping;
// otherwise the first error aborts the run.
//
// Lines are read on a separate goroutine so that cancellation is noticed
// while waiting for input. If in never yields another line that goroutine
// stays blocked in Read after Run has returned.
func (s *Shell[K]) Run(ctx context.Context, in io.Reader, interactive bool) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines, readErr := readLines(readCtx, in)
	lineNo := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if interactive {
			fmt.Fprint(s.out, Prompt)
		}
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if interactive {
					fmt.Fprintln(s.out)
				}
				return <-readErr
			}
			line = l
		}
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.Exec(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		case interactive:
			fmt.Fprintf(s.out, "error: %v\n", err)
		default:
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
}

// readLines feeds the lines of in to the returned channel. Exactly one
// value is sent on the error channel before the line channel is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func (s *Shell[K]) parseKeys(args []string) ([]K, error) {
	keys := make([]K, len(args))
	for i, arg := range args {
		k, err := s.parse(arg)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

// measure reports one operation and any rotations it caused.
func (s *Shell[K]) measure(ctx context.Context, op string, start time.Time, err error) {
	s.rec.MeasureOperation(ctx, op, start, err)
	for _, r := range s.rotations {
		s.rec.MeasureRotation(ctx, r)
	}
	s.rotations = s.rotations[:0]
}

func (s *Shell[K]) validate() error {
	if !s.checkInvariants {
		return nil
	}
	return s.tree.Validate()
}

type nopRecorder struct{}

func (nopRecorder) MeasureOperation(context.Context, string, time.Time, error) {}
func (nopRecorder) MeasureRotation(context.Context, avl.Rotation)              {}
