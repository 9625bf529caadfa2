package main

import (
	"os"

	"github.com/ledgerrun-dev/ledgerrun/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
