package main

import (
	"os"

	"github.com/joho/godotenv"

	servecmder "github.com/reverielabs/reverie/cmd/reverie/serve"
)

func main() {
	_ = godotenv.Load()

	cmd := servecmder.NewServeCmd()
	cmd.Use = "reverieapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .reverie/ config directory")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
