package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/runnerr0/histrank/internal/cli"
)

var version = "dev"

func main() {
	// A .env next to the binary may set HISTRANK_CONFIG.
	_ = godotenv.Load()

	// go-flags has already printed the error to stderr.
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
