package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"synapsim/cli"
	"synapsim/config"
)

var observeSnapshotFile string

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Print an activity summary for a brain snapshot",
	Long: `observe loads a brain snapshot without advancing time and prints its
activity statistics (neuron/synapse/impulse counts, potential ranges, and
connection fan-in/fan-out ranges), for inspecting the result of a build or
sim run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCfg := config.DefaultCLIConfig()
		cliCfg.Mode = config.ModeObserve
		cliCfg.Seed = seed
		cliCfg.SnapshotFile = observeSnapshotFile

		if configFile != "" {
			loaded, err := config.LoadTOMLFile(configFile)
			if err != nil {
				log.Printf("warning: %v; continuing with flag defaults", err)
			} else {
				cliCfg = loaded
				cliCfg.Mode = config.ModeObserve
			}
		}

		if cmd.Flags().Changed("seed") {
			cliCfg.Seed = seed
		}
		if cmd.Flags().Changed("snapshot") {
			cliCfg.SnapshotFile = observeSnapshotFile
		}

		appCfg := &config.AppConfig{Core: config.Default(), Cli: cliCfg}
		if err := appCfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration for observe mode: %w", err)
		}
		appCfg.CleanPaths()

		if err := cli.NewOrchestrator(appCfg).Run(); err != nil {
			return fmt.Errorf("error during observe mode execution: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(observeCmd)

	observeCmd.Flags().StringVarP(&observeSnapshotFile, "snapshot", "s", "brain.json", "brain snapshot file to load")
	_ = observeCmd.MarkFlagRequired("snapshot")
}
