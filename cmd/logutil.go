package cmd

import (
	"github.com/spf13/cobra"
)

// logutilCmd represents the base logutil command.
var logutilCmd = &cobra.Command{
	Use:   "logutil",
	Short: "Utilities for working with SQLite activity logs",
	Long: `logutil provides subcommands for processing and exporting the SQLite
activity logs a sim run produces.`,
}

func init() {
	rootCmd.AddCommand(logutilCmd)
}
