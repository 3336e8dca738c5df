// Package main provides the tokens CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/tokens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
