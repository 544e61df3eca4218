package main

import (
	"github.com/joho/godotenv"

	"github.com/custodia-labs/recall-cli/internal/adapters/driving/cli"
)

func main() {
	// Best effort; the environment may already carry the API key.
	_ = godotenv.Load()

	cli.Execute()
}
