package main

import (
	"os"

	"github.com/MrJamesThe3rd/pastel/cmd/pastel/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
