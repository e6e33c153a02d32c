// Package main is the brief command: it builds the daily ERP and middleware
// digest once (run), prints it without sending (preview), or schedules it
// (worker).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brief",
	Short: "Daily ERP & Middleware news digest",
	Long: `brief collects the last 24 hours of ERP and middleware news from RSS feeds and GDELT,
ranks and summarizes it, archives the rendered edition and delivers it through Brevo.

Configuration is read from the environment (and a .env file when present).`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
