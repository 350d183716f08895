// Package main is the entry point for the worklens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/worklens/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "worklens:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
