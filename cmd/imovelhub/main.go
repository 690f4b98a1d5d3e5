package main

import (
	"os"

	"imovelhub/cmd/imovelhub/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
