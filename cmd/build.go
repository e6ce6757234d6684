package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"synapsim/cli"
	"synapsim/config"
)

var (
	buildNeurons           int
	buildConnections       int
	buildRadius            float64
	buildMinGrowthRange    float64
	buildMaxGrowthRange    float64
	buildSensors           int
	buildEffectors         int
	buildNoLoopConnections bool
	buildSnapshotFile      string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Grow a fresh brain and save it as a JSON snapshot",
	Long: `build grows a new brain from a seed neuron outward using peripheral
spherical growth, connects neighboring neurons, and places sensors/effectors
at the periphery, then saves the result as a JSON snapshot file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCfg := config.DefaultCLIConfig()
		cliCfg.Mode = config.ModeBuild
		cliCfg.Seed = seed
		cliCfg.Neurons = buildNeurons
		cliCfg.Connections = buildConnections
		cliCfg.Radius = buildRadius
		cliCfg.MinGrowthRange = buildMinGrowthRange
		cliCfg.MaxGrowthRange = buildMaxGrowthRange
		cliCfg.Sensors = buildSensors
		cliCfg.Effectors = buildEffectors
		cliCfg.NoLoopConnections = buildNoLoopConnections
		cliCfg.SnapshotFile = buildSnapshotFile

		if configFile != "" {
			loaded, err := config.LoadTOMLFile(configFile)
			if err != nil {
				log.Printf("warning: %v; continuing with flag defaults", err)
			} else {
				cliCfg = loaded
				cliCfg.Mode = config.ModeBuild
			}
		}

		if cmd.Flags().Changed("seed") {
			cliCfg.Seed = seed
		}
		if cmd.Flags().Changed("neurons") {
			cliCfg.Neurons = buildNeurons
		}
		if cmd.Flags().Changed("connections") {
			cliCfg.Connections = buildConnections
		}
		if cmd.Flags().Changed("radius") {
			cliCfg.Radius = buildRadius
		}
		if cmd.Flags().Changed("minGrowthRange") {
			cliCfg.MinGrowthRange = buildMinGrowthRange
		}
		if cmd.Flags().Changed("maxGrowthRange") {
			cliCfg.MaxGrowthRange = buildMaxGrowthRange
		}
		if cmd.Flags().Changed("sensors") {
			cliCfg.Sensors = buildSensors
		}
		if cmd.Flags().Changed("effectors") {
			cliCfg.Effectors = buildEffectors
		}
		if cmd.Flags().Changed("noLoopConnections") {
			cliCfg.NoLoopConnections = buildNoLoopConnections
		}
		if cmd.Flags().Changed("out") {
			cliCfg.SnapshotFile = buildSnapshotFile
		}

		appCfg := &config.AppConfig{Core: config.Default(), Cli: cliCfg}
		if err := appCfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration for build mode: %w", err)
		}
		appCfg.CleanPaths()

		return cli.NewOrchestrator(appCfg).Run()
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().IntVarP(&buildNeurons, "neurons", "n", 100, "number of neurons to grow beyond the seed")
	buildCmd.Flags().IntVarP(&buildConnections, "connections", "c", 0, "number of extra neighbor-connection attempts after growth")
	buildCmd.Flags().Float64VarP(&buildRadius, "radius", "r", 10.0, "bounding sphere radius")
	buildCmd.Flags().Float64Var(&buildMinGrowthRange, "minGrowthRange", 0.1, "minimum peripheral growth offset")
	buildCmd.Flags().Float64Var(&buildMaxGrowthRange, "maxGrowthRange", 1.0, "maximum peripheral growth offset")
	buildCmd.Flags().IntVar(&buildSensors, "sensors", 1, "number of sensors to place at the periphery")
	buildCmd.Flags().IntVar(&buildEffectors, "effectors", 1, "number of effectors to place at the periphery")
	buildCmd.Flags().BoolVar(&buildNoLoopConnections, "noLoopConnections", true, "skip neighbor connections between neurons already connected in either direction")
	buildCmd.Flags().StringVarP(&buildSnapshotFile, "out", "o", "brain.json", "output JSON snapshot file")
}
