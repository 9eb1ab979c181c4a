// Command docuhub runs the DocuHub team knowledge base.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/cli"
)

func main() {
	// A missing .env file is normal.
	_ = godotenv.Load()

	// cobra has already printed the error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
