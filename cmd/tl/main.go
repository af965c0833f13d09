package main

import (
	"fmt"
	"os"

	"task-list/internal/cli"
	"task-list/internal/config"
)

func main() {
	root := cli.NewRootCommand(config.NewLoader(), cli.StdStreams())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cli.NewErrorHandler().HandleSimple(err))
		os.Exit(1)
	}
}
