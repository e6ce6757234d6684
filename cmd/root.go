package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	seed       int64
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "synapsim",
	Short: "synapsim: a spiking neural network growth and simulation tool",
	Long: `synapsim grows, simulates, and inspects a spiking neural network of
scalar-potential neurons connected by directed, receptor-weighted synapses.
Use 'synapsim [command] --help' for details on a specific command.`,
}

// Execute adds all child commands to the root command and runs it. This is
// called by main.main() once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a TOML configuration file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "seed for the random number generator")
}
