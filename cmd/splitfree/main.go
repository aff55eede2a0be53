package main

import (
	"os"

	"github.com/mmynk/splitfree/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
