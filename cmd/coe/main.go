package main

import (
	"os"

	"github.com/lowkh/coewatch/cmd/coe/commands"
)

// main is the entry point for the coewatch CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
