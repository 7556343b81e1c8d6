package main

import (
	"github.com/joho/godotenv"

	"folio/cmd/folio-cli/cmd"
)

func main() {
	// FOLIO_ROOT and FOLIO_CONFIG may come from a local .env
	_ = godotenv.Load()
	cmd.Execute()
}
