package main

import (
	"os"

	"github.com/dslab/avl/cmd/avl-cli/commands"
)

var version string = "dev"

func main() {
	err := commands.Run(version)
	if err != nil {
		os.Stderr.WriteString(err.Error())
		os.Stderr.WriteString("\n")
		os.Exit(1)
		return
	}
}
