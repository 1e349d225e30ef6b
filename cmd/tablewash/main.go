// Package main is the entry point for the tablewash CLI.
package main

import (
	"os"

	"github.com/jmylchreest/tablewash/cmd/tablewash/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
