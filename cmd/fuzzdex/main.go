// Package main provides the entry point for the fuzzdex CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/fuzzdex/cmd/fuzzdex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
