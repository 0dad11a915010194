package main

import (
	"os"

	"github.com/joho/godotenv"

	reveriecmder "github.com/reverielabs/reverie/cmd/reverie"
)

func main() {
	// API keys for the optional backends usually live in a .env file
	// during development. Missing files are fine.
	_ = godotenv.Load()

	cmd := reveriecmder.NewReverieCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
