package commands

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/dslab/avl/pkg/avl"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

type benchReport struct {
	Count      int
	Order      string
	Height     int
	InsertTime time.Duration
	DeleteTime time.Duration
	Inserts    map[avl.Rotation]int
	Deletes    map[avl.Rotation]int
}

func BenchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "insert then delete a batch of int keys and report rotations",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   100_000,
				Usage:   "number of keys",
			},
			&cli.StringFlag{
				Name:  "order",
				Value: "random",
				Usage: "insertion order: asc, desc or random",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "seed for random ordering",
			},
		},
		Action: func(ctx *cli.Context) error {
			keys, err := benchKeys(ctx.Int("count"), ctx.String("order"), ctx.Int64("seed"))
			if err != nil {
				return err
			}
			report, err := runBench(keys, ctx.Int64("seed"))
			if err != nil {
				return err
			}
			report.Order = ctx.String("order")
			e.logger.Debug("bench finished",
				zap.Int("count", report.Count),
				zap.Duration("insert", report.InsertTime),
				zap.Duration("delete", report.DeleteTime),
			)
			report.write(ctx.App.Writer)
			return nil
		},
	}
}

func benchKeys(n int, order string, seed int64) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("count must not be negative: %d", n)
	}
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	switch order {
	case "asc":
	case "desc":
		for i := range keys {
			keys[i] = n - 1 - i
		}
	case "random":
		rand.New(rand.NewPCG(uint64(seed), 0)).Shuffle(n, func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})
	default:
		return nil, fmt.Errorf("unknown order %q: want asc, desc or random", order)
	}
	return keys, nil
}

// runBench inserts keys, deletes them again in a shuffled order and
// validates the tree after each phase.
func runBench(keys []int, seed int64) (*benchReport, error) {
	report := &benchReport{
		Count:   len(keys),
		Inserts: make(map[avl.Rotation]int),
		Deletes: make(map[avl.Rotation]int),
	}
	counts := report.Inserts
	tree := avl.New(
		avl.WithCapacity[int](len(keys)),
		avl.WithRotationHook(func(r avl.Rotation, _ int) {
			counts[r]++
		}),
	)

	start := time.Now()
	for _, k := range keys {
		tree.Insert(k)
	}
	report.InsertTime = time.Since(start)
	report.Height = tree.Height()
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("after inserts: %w", err)
	}

	order := append([]int(nil), keys...)
	rand.New(rand.NewPCG(uint64(seed), 1)).Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	counts = report.Deletes
	start = time.Now()
	for _, k := range order {
		if err := tree.Delete(k); err != nil {
			return nil, err
		}
	}
	report.DeleteTime = time.Since(start)
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("after deletes: %w", err)
	}
	if !tree.Empty() {
		return nil, fmt.Errorf("tree not empty after deletes: %d keys left", tree.Len())
	}
	return report, nil
}

func (r *benchReport) write(w io.Writer) {
	fmt.Fprintf(w, "keys:   %d (%s)\n", r.Count, r.Order)
	fmt.Fprintf(w, "height: %d\n", r.Height)
	fmt.Fprintf(w, "insert: %s\n", r.InsertTime)
	fmt.Fprintf(w, "delete: %s\n", r.DeleteTime)
	fmt.Fprintf(w, "%-12s %8s %8s\n", "rotation", "insert", "delete")
	for _, kind := range []avl.Rotation{
		avl.RotateLeft, avl.RotateRight,
		avl.RotateLeftRight, avl.RotateRightLeft,
	} {
		fmt.Fprintf(w, "%-12s %8d %8d\n", kind, r.Inserts[kind], r.Deletes[kind])
	}
}
