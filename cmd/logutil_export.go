package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"synapsim/cli"
	"synapsim/config"
)

var (
	logutilExportDbPath string
	logutilExportOutput string
)

// logutilExportCmd represents the logutil export command.
var logutilExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a sim run's SQLite activity log as JSON",
	Long: `export reads every snapshot row (and its per-neuron state rows) from a
SQLite activity log and writes them as an indented JSON array to a file, or
to stdout if no output file is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCfg := config.DefaultCLIConfig()
		cliCfg.Mode = config.ModeLogUtil
		cliCfg.DbPath = logutilExportDbPath
		cliCfg.LogUtilOutput = logutilExportOutput

		appCfg := &config.AppConfig{Core: config.Default(), Cli: cliCfg}
		if err := appCfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration for logutil export: %w", err)
		}
		appCfg.CleanPaths()

		return cli.NewOrchestrator(appCfg).Run()
	},
}

func init() {
	logutilCmd.AddCommand(logutilExportCmd)

	logutilExportCmd.Flags().StringVarP(&logutilExportDbPath, "dbPath", "d", "", "path to the SQLite activity log (required)")
	_ = logutilExportCmd.MarkFlagRequired("dbPath")

	logutilExportCmd.Flags().StringVarP(&logutilExportOutput, "output", "o", "", "output JSON file (stdout if unset)")
}
