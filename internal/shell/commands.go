package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslab/avl/pkg/avl"
	"github.com/dslab/avl/pkg/render"
	"github.com/stoewer/go-strcase"
	"go.uber.org/zap"
)

// ops is implemented by every Shell[K]; it lets the command table stay
// free of type parameters. Callers hold the shell lock.
type ops interface {
	insert(ctx context.Context, args []string) error
	delete(ctx context.Context, args []string) error
	contains(ctx context.Context, args []string) error
	height(ctx context.Context, args []string) error
	size(ctx context.Context, args []string) error
	inOrder(ctx context.Context, args []string) error
	print(ctx context.Context, args []string) error
	check(ctx context.Context, args []string) error
	clear(ctx context.Context, args []string) error
	help(ctx context.Context, args []string) error
}

type command struct {
	name    string
	aliases []string
	usage   string
	about   string
	minArgs int
	run     func(ops, context.Context, []string) error
}

var commands = []*command{
	{name: "insert", aliases: []string{"add", "i"}, usage: "insert <key>...",
		about: "insert one or more keys", minArgs: 1, run: ops.insert},
	{name: "delete", aliases: []string{"remove", "del", "d"}, usage: "delete <key>...",
		about: "delete one occurrence of each key", minArgs: 1, run: ops.delete},
	{name: "contains", aliases: []string{"find"}, usage: "contains <key>",
		about: "report whether a key is present", minArgs: 1, run: ops.contains},
	{name: "height", usage: "height",
		about: "print the tree height (-1 when empty)", run: ops.height},
	{name: "len", aliases: []string{"size"}, usage: "len",
		about: "print the number of keys", run: ops.size},
	{name: "in-order", aliases: []string{"inorder", "walk", "list"}, usage: "in-order",
		about: "print the keys in ascending order", run: ops.inOrder},
	{name: "print", usage: "print [matrix|sideways]",
		about: "draw the tree", run: ops.print},
	{name: "check", usage: "check",
		about: "validate every tree invariant", run: ops.check},
	{name: "clear", usage: "clear",
		about: "remove every key", run: ops.clear},
	{name: "help", usage: "help",
		about: "show this message", run: ops.help},
	{name: "quit", aliases: []string{"exit"}, usage: "quit",
		about: "end the session", run: func(ops, context.Context, []string) error {
			return errQuit
		}},
}

var commandIndex = func() map[string]*command {
	index := make(map[string]*command)
	for _, cmd := range commands {
		index[cmd.name] = cmd
		for _, alias := range cmd.aliases {
			index[alias] = cmd
		}
	}
	return index
}()

// lookup resolves a verb in any casing (InOrder, in_order, IN-ORDER).
func lookup(verb string) (*command, bool) {
	if cmd, ok := commandIndex[strings.ToLower(verb)]; ok {
		return cmd, true
	}
	cmd, ok := commandIndex[strcase.KebabCase(verb)]
	return cmd, ok
}

func (s *Shell[K]) insert(ctx context.Context, args []string) error {
	keys, err := s.parseKeys(args)
	if err != nil {
		return err
	}
	for _, k := range keys {
		start := time.Now()
		s.tree.Insert(k)
		err := s.validate()
		s.measure(ctx, "insert", start, err)
		if err != nil {
			return err
		}
		s.logger.Debug("inserted",
			zap.Any("key", k),
			zap.Int("height", s.tree.Height()),
		)
	}
	return nil
}

func (s *Shell[K]) delete(ctx context.Context, args []string) error {
	keys, err := s.parseKeys(args)
	if err != nil {
		return err
	}
	for _, k := range keys {
		start := time.Now()
		err := s.tree.Delete(k)
		if errors.Is(err, avl.ErrNotFound) {
			s.measure(ctx, "delete", start, err)
			fmt.Fprintf(s.out, "key not found: %v\n", k)
			continue
		}
		if err == nil {
			err = s.validate()
		}
		s.measure(ctx, "delete", start, err)
		if err != nil {
			return err
		}
		s.logger.Debug("deleted",
			zap.Any("key", k),
			zap.Int("height", s.tree.Height()),
		)
	}
	return nil
}

func (s *Shell[K]) contains(ctx context.Context, args []string) error {
	k, err := s.parse(args[0])
	if err != nil {
		return err
	}
	start := time.Now()
	found := s.tree.Contains(k)
	s.measure(ctx, "contains", start, nil)
	fmt.Fprintln(s.out, found)
	return nil
}

func (s *Shell[K]) height(context.Context, []string) error {
	fmt.Fprintln(s.out, s.tree.Height())
	return nil
}

func (s *Shell[K]) size(context.Context, []string) error {
	fmt.Fprintln(s.out, s.tree.Len())
	return nil
}

func (s *Shell[K]) inOrder(ctx context.Context, _ []string) error {
	start := time.Now()
	var b strings.Builder
	for k := range s.tree.All() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, k)
	}
	s.measure(ctx, "in-order", start, nil)
	fmt.Fprintln(s.out, b.String())
	return nil
}

func (s *Shell[K]) print(_ context.Context, args []string) error {
	style := s.style
	if len(args) > 0 {
		style = render.Style(args[0])
	}
	if s.tree.Empty() {
		fmt.Fprintln(s.out, "(empty)")
		return nil
	}
	return render.Write(s.out, s.tree, style)
}

func (s *Shell[K]) check(ctx context.Context, _ []string) error {
	start := time.Now()
	err := s.tree.Validate()
	s.measure(ctx, "check", start, err)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ok")
	return nil
}

func (s *Shell[K]) clear(ctx context.Context, _ []string) error {
	start := time.Now()
	s.tree.Clear()
	s.measure(ctx, "clear", start, nil)
	return nil
}

func (s *Shell[K]) help(context.Context, []string) error {
	for _, cmd := range commands {
		line := fmt.Sprintf("  %-26s %s", cmd.usage, cmd.about)
		if len(cmd.aliases) > 0 {
			line += " (" + strings.Join(cmd.aliases, ", ") + ")"
		}
		fmt.Fprintln(s.out, line)
	}
	return nil
}
