package main

import (
	"os"

	"github.com/bookline-dev/bookline/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
