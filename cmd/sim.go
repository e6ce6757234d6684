package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"synapsim/cli"
	"synapsim/config"
)

var (
	simSnapshotFile       string
	simTicks              int
	simDeltaTime          float64
	simDbPath             string
	simSaveInterval       int
	simStimSensorIndex    int
	simStimRandomPercent  float64
	simStimPotential      float64
	simIgniteCount        int
	simIgniteMinPotential float64
	simIgniteMaxPotential float64

	simCPUProfileFile  string
	simHeapProfileFile string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Advance a loaded brain's simulation for a number of ticks",
	Long: `sim loads a brain snapshot, applies an optional one-shot stimulus
timeline (sensor triggers, random sensor triggers, synapse ignition), then
runs the six-phase per-tick engine for the requested number of ticks,
periodically logging activity to SQLite and stdout, and saves the final
state back to the snapshot file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if simCPUProfileFile != "" {
			f, err := os.Create(simCPUProfileFile)
			if err != nil {
				log.Fatalf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				log.Fatalf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
			fmt.Printf("CPU profiling enabled, saving to %s\n", simCPUProfileFile)
		}

		cliCfg := config.DefaultCLIConfig()
		cliCfg.Mode = config.ModeSim
		cliCfg.Seed = seed
		cliCfg.SnapshotFile = simSnapshotFile
		cliCfg.Ticks = simTicks
		cliCfg.DeltaTime = simDeltaTime
		cliCfg.DbPath = simDbPath
		cliCfg.SaveInterval = simSaveInterval
		cliCfg.StimSensorIndex = simStimSensorIndex
		cliCfg.StimRandomPercent = simStimRandomPercent
		cliCfg.StimPotential = simStimPotential
		cliCfg.IgniteCount = simIgniteCount
		cliCfg.IgniteMinPotential = simIgniteMinPotential
		cliCfg.IgniteMaxPotential = simIgniteMaxPotential

		if configFile != "" {
			loaded, err := config.LoadTOMLFile(configFile)
			if err != nil {
				log.Printf("warning: %v; continuing with flag defaults", err)
			} else {
				cliCfg = loaded
				cliCfg.Mode = config.ModeSim
			}
		}

		if cmd.Flags().Changed("seed") {
			cliCfg.Seed = seed
		}
		if cmd.Flags().Changed("snapshot") {
			cliCfg.SnapshotFile = simSnapshotFile
		}
		if cmd.Flags().Changed("ticks") {
			cliCfg.Ticks = simTicks
		}
		if cmd.Flags().Changed("dt") {
			cliCfg.DeltaTime = simDeltaTime
		}
		if cmd.Flags().Changed("dbPath") {
			cliCfg.DbPath = simDbPath
		}
		if cmd.Flags().Changed("saveInterval") {
			cliCfg.SaveInterval = simSaveInterval
		}
		if cmd.Flags().Changed("stimSensorIndex") {
			cliCfg.StimSensorIndex = simStimSensorIndex
		}
		if cmd.Flags().Changed("stimRandomPercent") {
			cliCfg.StimRandomPercent = simStimRandomPercent
		}
		if cmd.Flags().Changed("stimPotential") {
			cliCfg.StimPotential = simStimPotential
		}
		if cmd.Flags().Changed("igniteCount") {
			cliCfg.IgniteCount = simIgniteCount
		}
		if cmd.Flags().Changed("igniteMinPotential") {
			cliCfg.IgniteMinPotential = simIgniteMinPotential
		}
		if cmd.Flags().Changed("igniteMaxPotential") {
			cliCfg.IgniteMaxPotential = simIgniteMaxPotential
		}

		appCfg := &config.AppConfig{Core: config.Default(), Cli: cliCfg}
		if err := appCfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration for sim mode: %w", err)
		}
		appCfg.CleanPaths()

		runErr := cli.NewOrchestrator(appCfg).Run()

		if simHeapProfileFile != "" && runErr == nil {
			f, err := os.Create(simHeapProfileFile)
			if err != nil {
				log.Fatalf("could not create heap profile: %v", err)
			}
			defer f.Close()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatalf("could not write heap profile: %v", err)
			}
			fmt.Printf("heap profile saved to %s\n", simHeapProfileFile)
		}

		if runErr != nil {
			return fmt.Errorf("error during sim mode execution: %w", runErr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simCmd)

	simCmd.Flags().StringVarP(&simSnapshotFile, "snapshot", "s", "brain.json", "brain snapshot file to load and save")
	simCmd.Flags().IntVarP(&simTicks, "ticks", "t", 1000, "number of simulation ticks to run")
	simCmd.Flags().Float64Var(&simDeltaTime, "dt", 1.0, "simulated time elapsed per tick")
	simCmd.Flags().StringVar(&simDbPath, "dbPath", "", "SQLite activity log path (empty disables logging)")
	simCmd.Flags().IntVar(&simSaveInterval, "saveInterval", 100, "ticks between activity log/stdout reports (0 disables periodic reports)")
	simCmd.Flags().IntVar(&simStimSensorIndex, "stimSensorIndex", -1, "index of a sensor to trigger once at startup (-1 disables)")
	simCmd.Flags().Float64Var(&simStimRandomPercent, "stimRandomPercent", 0, "fraction of sensors to trigger randomly at startup")
	simCmd.Flags().Float64Var(&simStimPotential, "stimPotential", 2.0, "potential injected by a sensor trigger")
	simCmd.Flags().IntVar(&simIgniteCount, "igniteCount", 0, "number of random synapses to seed with an in-flight impulse at startup")
	simCmd.Flags().Float64Var(&simIgniteMinPotential, "igniteMinPotential", 0.5, "minimum potential for an ignited impulse")
	simCmd.Flags().Float64Var(&simIgniteMaxPotential, "igniteMaxPotential", 2.0, "maximum potential for an ignited impulse")

	simCmd.Flags().StringVar(&simCPUProfileFile, "cpuprofile", "", "write a CPU profile to this file")
	simCmd.Flags().StringVar(&simHeapProfileFile, "memprofile", "", "write a heap profile to this file")
}
