// Package main provides the entry point for the nanokontrol daemon.
package main

import (
	"fmt"
	"os"

	"github.com/midivolt/nanokontrol/cmd/nanokontrol/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
