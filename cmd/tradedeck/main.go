package main

import (
	"os"

	"github.com/tradedeck/backend/cmd/tradedeck/commands"
)

// main is the entry point for the tradedeck CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
