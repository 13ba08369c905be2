package main

import (
	"os"

	"github.com/proxyme/proxyme/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
