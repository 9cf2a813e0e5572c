package main

import (
	"os"

	"github.com/lakeline-labs/lakeline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
