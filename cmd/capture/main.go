package main

import (
	"os"

	"github.com/FACorreiaa/echo-capture/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
