package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/dslab/avl/internal/config"
	"github.com/dslab/avl/pkg/avl"
	"github.com/dslab/avl/pkg/render"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var version string = "dev"

var defaultKeys = []int{11, 7, 5, 10, 18, 14, 12, 16, 22, 20, 24}

func main() {
	showVersion := pflag.BoolP("version", "v", false, "print current version")
	configPath := pflag.StringP("config", "c", "", "path to config file")
	keys := pflag.IntSlice("keys", defaultKeys, "keys to insert, in order")
	deletes := pflag.IntSlice("delete", nil, "keys to delete after inserting")
	style := pflag.String("style", "", "matrix or sideways (default from config)")
	help := pflag.BoolP("help", "h", false, "show help")

	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	// get version from build info when installed using `go install`
	buildInfo, ok := debug.ReadBuildInfo()
	if ok && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		version = buildInfo.Main.Version
	}

	if *showVersion {
		println(version)
		return
	}

	if !envVarCheckBool("AVL_DISABLE_BANNER") {
		fmt.Println(
			"    _   __   ___    \n" +
				"   /_\\  \\ \\ / / |   \n" +
				"  / _ \\  \\ V /| |__ \n" +
				" /_/ \\_\\  \\_/ |____|\n" +
				"                    \n" +
				"AVL tree demo (" + version + ")\n" +
				"--------------------\n",
		)
	}

	avlConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %s\n", err)
		os.Exit(1)
	}
	logger, err := avlConfig.GetLogger()
	if err != nil {
		fmt.Printf("Error setting up logger: %s\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *style == "" {
		*style = avlConfig.Render.Style
	}
	if err = runDemo(context.Background(), os.Stdout, logger, render.Style(*style), *keys, *deletes); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

// runDemo inserts keys one at a time, drawing the tree after each step,
// then deletes the requested keys the same way.
func runDemo(
	_ context.Context, w io.Writer, logger *zap.Logger,
	style render.Style, keys, deletes []int,
) error {
	tree := avl.New(
		avl.WithCapacity[int](len(keys)),
		avl.WithRotationHook(func(r avl.Rotation, pivot int) {
			fmt.Fprintf(w, "  rotate %s at %d\n", r, pivot)
		}),
	)

	step := func(title string) error {
		fmt.Fprintf(w, "%s (height %d)\n", title, tree.Height())
		if tree.Empty() {
			fmt.Fprintln(w, "(empty)")
		} else if err := render.Write(w, tree, style); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return tree.Validate()
	}

	for _, k := range keys {
		tree.Insert(k)
		if err := step(fmt.Sprintf("insert %d", k)); err != nil {
			return err
		}
	}
	for _, k := range deletes {
		if err := tree.Delete(k); err != nil {
			logger.Warn("delete skipped", zap.Int("key", k), zap.Error(err))
			fmt.Fprintf(w, "key not found: %d\n\n", k)
			continue
		}
		if err := step(fmt.Sprintf("delete %d", k)); err != nil {
			return err
		}
	}

	var inOrder []string
	for k := range tree.All() {
		inOrder = append(inOrder, fmt.Sprint(k))
	}
	fmt.Fprintf(w, "in-order: %s\n", strings.Join(inOrder, " "))
	return nil
}

func envVarCheckBool(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
