// Package main provides the CLI for the LeapUML diagram editor.
package main

import (
	"os"

	"github.com/leapstack-labs/leapuml/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
