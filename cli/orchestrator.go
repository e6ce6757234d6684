// Package cli wires a loaded or newly-built brain, the ambient
// configuration, and the storage layer together into the four operator
// workflows the synapsim binary exposes: build, sim, observe, and
// logutil export.
package cli

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"synapsim/brain"
	"synapsim/config"
	"synapsim/storage"
)

// Orchestrator manages execution based on CLI configuration: AppCfg and
// Logger fields, a Run() mode switch, and *ForTest wrappers for
// integration tests.
type Orchestrator struct {
	AppCfg *config.AppConfig
	Brain  *brain.Brain
	Logger *storage.SQLiteLogger

	loadBrainFn func(path string, rng *rand.Rand) (*brain.Brain, error)
	saveBrainFn func(b *brain.Brain, path string) error
}

// NewOrchestrator creates an orchestrator with the given configuration,
// defaulting to real filesystem-backed persistence.
func NewOrchestrator(appCfg *config.AppConfig) *Orchestrator {
	return &Orchestrator{
		AppCfg:      appCfg,
		loadBrainFn: storage.LoadBrainFromJSON,
		saveBrainFn: storage.SaveBrainToJSON,
	}
}

// Run executes the selected mode. It is the orchestrator's single entry
// point, dispatching on AppCfg.Cli.Mode.
func (o *Orchestrator) Run() error {
	fmt.Println("synapsim initializing...")
	fmt.Printf("Selected mode: %s\n", o.AppCfg.Cli.Mode)
	o.printModeSpecificConfig()

	if err := o.initializeLogger(); err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	if o.Logger != nil {
		defer func() {
			if errClose := o.Logger.Close(); errClose != nil {
				log.Printf("error closing SQLite logger: %v", errClose)
			}
		}()
	}

	startTime := time.Now()
	var errRun error

	switch o.AppCfg.Cli.Mode {
	case config.ModeBuild:
		errRun = o.runBuildMode()
	case config.ModeSim:
		errRun = o.runSimMode()
	case config.ModeObserve:
		errRun = o.runObserveMode()
	case config.ModeLogUtil:
		errRun = o.runLogUtilMode()
	default:
		return fmt.Errorf("unknown or unsupported mode in Orchestrator.Run: %s", o.AppCfg.Cli.Mode)
	}

	if errRun != nil {
		return fmt.Errorf("error during execution of mode '%s': %w", o.AppCfg.Cli.Mode, errRun)
	}

	fmt.Printf("\nsynapsim session finished. Total duration: %s.\n", time.Since(startTime))
	return nil
}

// initializeLogger sets up the SQLite activity logger if the sim mode
// requested one via DbPath.
func (o *Orchestrator) initializeLogger() error {
	cfg := &o.AppCfg.Cli
	if cfg.DbPath != "" && cfg.Mode == config.ModeSim {
		validatedDbPath, err := o.validatePath(cfg.DbPath, false)
		if err != nil {
			return fmt.Errorf("invalid db_path '%s': %w", cfg.DbPath, err)
		}
		cfg.DbPath = validatedDbPath

		o.Logger, err = storage.NewSQLiteLogger(cfg.DbPath)
		if err != nil {
			return fmt.Errorf("failed to initialize SQLite logger at %s: %w", cfg.DbPath, err)
		}
		fmt.Printf("SQLite logging enabled: %s\n", cfg.DbPath)
	}
	return nil
}

// validatePath cleans, absolutizes, and performs basic existence checks on
// a file path. forRead requires the path to already exist as a file;
// !forRead only requires the parent directory to exist.
func (o *Orchestrator) validatePath(rawPath string, forRead bool) (string, error) {
	if strings.TrimSpace(rawPath) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	absPath, err := filepath.Abs(filepath.Clean(rawPath))
	if err != nil {
		return "", fmt.Errorf("could not determine absolute path for '%s': %w", rawPath, err)
	}

	fileInfo, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			if forRead {
				return "", fmt.Errorf("path '%s' (resolved to '%s') does not exist", rawPath, absPath)
			}
			parentDir := filepath.Dir(absPath)
			parentInfo, parentErr := os.Stat(parentDir)
			if parentErr != nil {
				if os.IsNotExist(parentErr) {
					return "", fmt.Errorf("parent directory for '%s' (resolved to '%s') does not exist", rawPath, parentDir)
				}
				return "", fmt.Errorf("could not stat parent directory '%s': %w", parentDir, parentErr)
			}
			if !parentInfo.IsDir() {
				return "", fmt.Errorf("parent path '%s' for '%s' is not a directory", parentDir, rawPath)
			}
			return absPath, nil
		}
		return "", fmt.Errorf("could not stat path '%s' (resolved to '%s'): %w", rawPath, absPath, err)
	}

	if forRead && fileInfo.IsDir() {
		return "", fmt.Errorf("path '%s' (resolved to '%s') is a directory, expected a file for reading", rawPath, absPath)
	}
	if !forRead && fileInfo.IsDir() {
		return "", fmt.Errorf("path '%s' (resolved to '%s') exists and is a directory, expected a file path for writing", rawPath, absPath)
	}
	return absPath, nil
}

func (o *Orchestrator) printModeSpecificConfig() {
	cfg := o.AppCfg.Cli
	switch cfg.Mode {
	case config.ModeBuild:
		fmt.Printf("  neurons=%d connections=%d radius=%.2f sensors=%d effectors=%d -> %s\n",
			cfg.Neurons, cfg.Connections, cfg.Radius, cfg.Sensors, cfg.Effectors, cfg.SnapshotFile)
	case config.ModeSim:
		fmt.Printf("  snapshot=%s ticks=%d dt=%.3f db=%s\n", cfg.SnapshotFile, cfg.Ticks, cfg.DeltaTime, cfg.DbPath)
	case config.ModeObserve:
		fmt.Printf("  snapshot=%s\n", cfg.SnapshotFile)
	case config.ModeLogUtil:
		fmt.Printf("  db=%s output=%s\n", cfg.DbPath, cfg.LogUtilOutput)
	}
}

// runBuildMode grows a fresh brain from the BrainBuilder scalars in
// AppCfg.Cli and persists it as a JSON snapshot.
func (o *Orchestrator) runBuildMode() error {
	cfg := o.AppCfg.Cli
	outPath, err := o.validatePath(cfg.SnapshotFile, false)
	if err != nil {
		return fmt.Errorf("invalid snapshot_file: %w", err)
	}

	bb := brain.DefaultBrainBuilder()
	bb.Config = o.AppCfg.Core
	bb.Neurons = cfg.Neurons
	bb.Connections = cfg.Connections
	bb.Radius = cfg.Radius
	bb.MinNeurogenesisRange = cfg.MinGrowthRange
	bb.MaxNeurogenesisRange = cfg.MaxGrowthRange
	bb.Sensors = cfg.Sensors
	bb.Effectors = cfg.Effectors
	bb.NoLoopConnections = cfg.NoLoopConnections

	rng := rand.New(rand.NewSource(cfg.Seed))
	o.Brain = bb.Build(rng)

	if o.saveBrainFn == nil {
		o.saveBrainFn = storage.SaveBrainToJSON
	}
	if err := o.saveBrainFn(o.Brain, outPath); err != nil {
		return fmt.Errorf("failed to save built brain to %s: %w", outPath, err)
	}

	stats := o.Brain.BuildActivityStats()
	fmt.Printf("built brain: %d neurons, %d synapses -> %s\n", stats.NeuronsCount, stats.SynapsesCount, outPath)
	return nil
}

// runSimMode loads a brain snapshot, runs the six-phase engine for
// cfg.Ticks steps, applies the stimulus timeline, and periodically logs
// activity to SQLite and stdout.
func (o *Orchestrator) runSimMode() error {
	cfg := o.AppCfg.Cli
	inPath, err := o.validatePath(cfg.SnapshotFile, true)
	if err != nil {
		return fmt.Errorf("invalid snapshot_file: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if o.loadBrainFn == nil {
		o.loadBrainFn = storage.LoadBrainFromJSON
	}
	o.Brain, err = o.loadBrainFn(inPath, rng)
	if err != nil {
		return fmt.Errorf("failed to load brain from %s: %w", inPath, err)
	}

	if err := o.applyStimulusTimeline(rng); err != nil {
		return fmt.Errorf("failed to apply stimulus timeline: %w", err)
	}

	for tick := 0; tick < cfg.Ticks; tick++ {
		if err := o.Brain.Process(cfg.DeltaTime); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}

		if cfg.SaveInterval > 0 && tick%cfg.SaveInterval == 0 {
			stats := o.Brain.BuildActivityStats()
			fmt.Printf("tick=%d neurons=%d synapses=%d impulses=%d potential=%.3f\n",
				tick, stats.NeuronsCount, stats.SynapsesCount, stats.ImpulsesCount, stats.CombinedPotentialCurrent)
			if o.Logger != nil {
				if err := o.Logger.LogTick(tick, o.Brain); err != nil {
					return fmt.Errorf("tick %d: failed to log activity: %w", tick, err)
				}
			}
		}
	}

	if o.saveBrainFn == nil {
		o.saveBrainFn = storage.SaveBrainToJSON
	}
	if err := o.saveBrainFn(o.Brain, inPath); err != nil {
		return fmt.Errorf("failed to save final brain state to %s: %w", inPath, err)
	}
	fmt.Printf("simulation complete, final state saved to %s\n", inPath)
	return nil
}

// applyStimulusTimeline performs the one-shot stimulus injections sim mode
// supports: triggering a single sensor by index, triggering a random
// percentage of sensors, and igniting random in-flight synapse impulses.
func (o *Orchestrator) applyStimulusTimeline(rng *rand.Rand) error {
	cfg := o.AppCfg.Cli
	sensors := o.Brain.Sensors()

	if cfg.StimSensorIndex >= 0 && cfg.StimSensorIndex < len(sensors) {
		if err := o.Brain.SensorTriggerImpulse(sensors[cfg.StimSensorIndex], cfg.StimPotential); err != nil {
			return err
		}
	}

	if cfg.StimRandomPercent > 0 && len(sensors) > 0 {
		count := int(cfg.StimRandomPercent * float64(len(sensors)))
		if count < 1 {
			count = 1
		}
		perm := rng.Perm(len(sensors))
		for i := 0; i < count && i < len(perm); i++ {
			if err := o.Brain.SensorTriggerImpulse(sensors[perm[i]], cfg.StimPotential); err != nil {
				return err
			}
		}
	}

	if cfg.IgniteCount > 0 {
		o.Brain.IgniteRandomSynapses(cfg.IgniteCount, [2]float64{cfg.IgniteMinPotential, cfg.IgniteMaxPotential}, rng)
	}
	return nil
}

// runObserveMode loads a brain snapshot and prints its activity summary
// without advancing time, for inspecting a build or sim result.
func (o *Orchestrator) runObserveMode() error {
	cfg := o.AppCfg.Cli
	inPath, err := o.validatePath(cfg.SnapshotFile, true)
	if err != nil {
		return fmt.Errorf("invalid snapshot_file: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if o.loadBrainFn == nil {
		o.loadBrainFn = storage.LoadBrainFromJSON
	}
	o.Brain, err = o.loadBrainFn(inPath, rng)
	if err != nil {
		return fmt.Errorf("failed to load brain from %s: %w", inPath, err)
	}

	stats := o.Brain.BuildActivityStats()
	fmt.Printf("neurons=%d synapses=%d impulses=%d\n", stats.NeuronsCount, stats.SynapsesCount, stats.ImpulsesCount)
	fmt.Printf("neuron potential: current=%.3f min=%.3f max=%.3f\n",
		stats.NeuronPotentialCurrent, stats.NeuronPotentialMin, stats.NeuronPotentialMax)
	fmt.Printf("combined potential: current=%.3f min=%.3f max=%.3f\n",
		stats.CombinedPotentialCurrent, stats.CombinedPotentialMin, stats.CombinedPotentialMax)
	fmt.Printf("connections: incoming=[%d,%d] outgoing=[%d,%d] receptors=[%.2f,%.2f]\n",
		stats.IncomingConnectionsMin, stats.IncomingConnectionsMax,
		stats.OutgoingConnectionsMin, stats.OutgoingConnectionsMax,
		stats.ReceptorsMin, stats.ReceptorsMax)
	return nil
}

// runLogUtilMode exports a SQLite activity log to JSON.
func (o *Orchestrator) runLogUtilMode() error {
	cfg := o.AppCfg.Cli
	dbPath, err := o.validatePath(cfg.DbPath, true)
	if err != nil {
		return fmt.Errorf("invalid db_path: %w", err)
	}

	outPath := cfg.LogUtilOutput
	if outPath != "" {
		outPath, err = o.validatePath(outPath, false)
		if err != nil {
			return fmt.Errorf("invalid logutil_output: %w", err)
		}
	}

	if err := storage.ExportLogToJSON(dbPath, outPath); err != nil {
		return fmt.Errorf("failed to export activity log: %w", err)
	}
	if outPath != "" {
		fmt.Printf("exported activity log from %s to %s\n", dbPath, outPath)
	}
	return nil
}

// SetLoadBrainFn overrides brain loading for tests.
func (o *Orchestrator) SetLoadBrainFn(fn func(path string, rng *rand.Rand) (*brain.Brain, error)) {
	o.loadBrainFn = fn
}

// SetSaveBrainFn overrides brain saving for tests.
func (o *Orchestrator) SetSaveBrainFn(fn func(b *brain.Brain, path string) error) {
	o.saveBrainFn = fn
}

// RunBuildModeForTest exposes runBuildMode to integration tests.
func (o *Orchestrator) RunBuildModeForTest() error { return o.runBuildMode() }

// RunSimModeForTest exposes runSimMode to integration tests.
func (o *Orchestrator) RunSimModeForTest() error { return o.runSimMode() }

// RunObserveModeForTest exposes runObserveMode to integration tests.
func (o *Orchestrator) RunObserveModeForTest() error { return o.runObserveMode() }

// RunLogUtilModeForTest exposes runLogUtilMode to integration tests.
func (o *Orchestrator) RunLogUtilModeForTest() error { return o.runLogUtilMode() }

// InitializeLoggerForTest exposes initializeLogger to integration tests.
func (o *Orchestrator) InitializeLoggerForTest() error { return o.initializeLogger() }

// CloseLoggerForTest closes the logger, if any, for integration tests.
func (o *Orchestrator) CloseLoggerForTest() error {
	if o.Logger != nil {
		return o.Logger.Close()
	}
	return nil
}
