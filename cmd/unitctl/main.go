package main

import (
	"os"

	"github.com/bodrovis/unitx/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
