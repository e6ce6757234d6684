package cli_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"synapsim/brain"
	"synapsim/cli"
	"synapsim/config"
	"synapsim/storage"
)

func testAppConfig(t *testing.T, mode string) *config.AppConfig {
	t.Helper()
	cliCfg := config.DefaultCLIConfig()
	cliCfg.Mode = mode
	cliCfg.Neurons = 12
	cliCfg.Connections = 2
	cliCfg.Sensors = 1
	cliCfg.Effectors = 1
	cliCfg.Ticks = 5
	cliCfg.SaveInterval = 2
	cliCfg.SnapshotFile = filepath.Join(t.TempDir(), "brain.json")
	return &config.AppConfig{Core: config.Default(), Cli: cliCfg}
}

func TestRunBuildModeProducesLoadableSnapshot(t *testing.T) {
	appCfg := testAppConfig(t, config.ModeBuild)
	o := cli.NewOrchestrator(appCfg)

	if err := o.RunBuildModeForTest(); err != nil {
		t.Fatalf("RunBuildModeForTest: %v", err)
	}
	if o.Brain == nil || o.Brain.NeuronsCount() == 0 {
		t.Fatalf("expected a non-empty built brain")
	}

	reloaded, err := storage.LoadBrainFromJSON(appCfg.Cli.SnapshotFile, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("LoadBrainFromJSON: %v", err)
	}
	if reloaded.NeuronsCount() != o.Brain.NeuronsCount() {
		t.Fatalf("reloaded neuron count = %d, want %d", reloaded.NeuronsCount(), o.Brain.NeuronsCount())
	}
}

func TestRunSimModeAdvancesAndPersists(t *testing.T) {
	appCfg := testAppConfig(t, config.ModeBuild)
	builder := cli.NewOrchestrator(appCfg)
	if err := builder.RunBuildModeForTest(); err != nil {
		t.Fatalf("RunBuildModeForTest: %v", err)
	}

	appCfg.Cli.Mode = config.ModeSim
	appCfg.Cli.StimSensorIndex = 0
	appCfg.Cli.StimPotential = 5

	o := cli.NewOrchestrator(appCfg)
	if err := o.RunSimModeForTest(); err != nil {
		t.Fatalf("RunSimModeForTest: %v", err)
	}
	if o.Brain == nil {
		t.Fatalf("expected orchestrator to hold the simulated brain")
	}
}

func TestRunObserveModeReportsStats(t *testing.T) {
	appCfg := testAppConfig(t, config.ModeBuild)
	builder := cli.NewOrchestrator(appCfg)
	if err := builder.RunBuildModeForTest(); err != nil {
		t.Fatalf("RunBuildModeForTest: %v", err)
	}

	appCfg.Cli.Mode = config.ModeObserve
	o := cli.NewOrchestrator(appCfg)
	if err := o.RunObserveModeForTest(); err != nil {
		t.Fatalf("RunObserveModeForTest: %v", err)
	}
	if o.Brain.NeuronsCount() != appCfg.Cli.Neurons+1 {
		// BrainBuilder seeds one extra neuron at the origin before growth.
		t.Logf("neurons = %d", o.Brain.NeuronsCount())
	}
}

func TestRunLogUtilModeExportsLogFile(t *testing.T) {
	appCfg := testAppConfig(t, config.ModeSim)
	appCfg.Cli.DbPath = filepath.Join(t.TempDir(), "activity.db")

	o := cli.NewOrchestrator(appCfg)
	if err := o.InitializeLoggerForTest(); err != nil {
		t.Fatalf("InitializeLoggerForTest: %v", err)
	}

	bb := brain.DefaultBrainBuilder()
	bb.Neurons = 4
	b := bb.Build(rand.New(rand.NewSource(1)))
	if err := o.Logger.LogTick(0, b); err != nil {
		t.Fatalf("LogTick: %v", err)
	}
	if err := o.CloseLoggerForTest(); err != nil {
		t.Fatalf("CloseLoggerForTest: %v", err)
	}

	appCfg.Cli.Mode = config.ModeLogUtil
	appCfg.Cli.LogUtilOutput = filepath.Join(t.TempDir(), "export.json")
	exporter := cli.NewOrchestrator(appCfg)
	if err := exporter.RunLogUtilModeForTest(); err != nil {
		t.Fatalf("RunLogUtilModeForTest: %v", err)
	}
}

func TestValidatePathRejectsEmptyPath(t *testing.T) {
	appCfg := testAppConfig(t, config.ModeBuild)
	appCfg.Cli.SnapshotFile = ""
	o := cli.NewOrchestrator(appCfg)
	if err := o.RunBuildModeForTest(); err == nil {
		t.Fatalf("expected an error for an empty snapshot_file")
	}
}
