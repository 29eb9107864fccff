package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/cmd/tptest/commands"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/logger"
)

func main() {
	// A .env file is optional; local runs use it to point the harness at a
	// non-default LocalStack endpoint.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Println("Warning: could not load .env file:", err)
	}

	logger.Initialize()

	if err := commands.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
