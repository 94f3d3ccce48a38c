package main

import (
	"os"

	"github.com/woozymasta/minilang/cmd/minilang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
