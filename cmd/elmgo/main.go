package main

import (
	"os"

	"github.com/elmgo-ml/elmgo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
