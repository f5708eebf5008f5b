// Package main is the entry point for the tilerate CLI.
package main

import (
	"os"

	"tilerate/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
