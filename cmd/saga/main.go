package main

import (
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
