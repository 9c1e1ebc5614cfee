// Package main is the entry point for the codedrills CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/codedrills/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
