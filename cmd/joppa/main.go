// Package main provides the entry point for the Joppa HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "joppa",
	Short: "Joppa recruiting campaign API server",
	Long:  "Joppa turns a free-text vacancy brain dump into publishable multi-channel recruiting copy via REST API, with a public job board and an Indeed source feed.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
