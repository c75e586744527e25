package main

import (
	"os"

	"github.com/quantlab/factorlens/cmd/factorlens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
