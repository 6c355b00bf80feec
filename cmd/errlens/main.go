package main

import (
	"os"

	"github.com/errlens/errlens/internal/commands"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
