package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookreader-cli",
	Short: "Bookreader CLI tool",
	Long: `Bookreader CLI checks credentials against the same rules as the login
screen and runs sign-in or sign-up against the configured SurrealDB.

Available commands:
  check-email    Validate email addresses with the login screen rules
  signin         Sign in an existing account
  signup         Create an account and its reader profile
  version        Print the CLI version

Use "bookreader-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
