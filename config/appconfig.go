package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Mode selects which cmd subcommand's semantics an AppConfig was built for.
// Kept as a string enum rather than one struct per subcommand, so a single
// AppConfig can represent any mode.
const (
	ModeBuild   = "build"
	ModeSim     = "sim"
	ModeObserve = "observe"
	ModeLogUtil = "logutil"
)

// SupportedModes lists every valid Mode value.
var SupportedModes = []string{ModeBuild, ModeSim, ModeObserve, ModeLogUtil}

// CLIConfig holds the operator-facing knobs each subcommand exposes, all
// grouped into one struct rather than one struct per subcommand.
type CLIConfig struct {
	Mode string `toml:"mode"`

	// General
	SnapshotFile string `toml:"snapshot_file"`
	Seed         int64  `toml:"seed"`

	// 'build' mode: BrainBuilder scalars.
	Neurons           int     `toml:"neurons"`
	Connections       int     `toml:"connections"`
	Radius            float64 `toml:"radius"`
	MinGrowthRange    float64 `toml:"min_growth_range"`
	MaxGrowthRange    float64 `toml:"max_growth_range"`
	Sensors           int     `toml:"sensors"`
	Effectors         int     `toml:"effectors"`
	NoLoopConnections bool    `toml:"no_loop_connections"`

	// 'sim' mode
	Ticks              int     `toml:"ticks"`
	DeltaTime          float64 `toml:"delta_time"`
	DbPath             string  `toml:"db_path"`
	SaveInterval       int     `toml:"save_interval"`
	StimSensorIndex    int     `toml:"stim_sensor_index"`
	StimRandomPercent  float64 `toml:"stim_random_percent"`
	StimPotential      float64 `toml:"stim_potential"`
	IgniteCount        int     `toml:"ignite_count"`
	IgniteMinPotential float64 `toml:"ignite_min_potential"`
	IgniteMaxPotential float64 `toml:"ignite_max_potential"`
	ProfileCPU         string  `toml:"profile_cpu"`
	ProfileHeap        string  `toml:"profile_heap"`

	// 'logutil export' mode
	LogUtilOutput string `toml:"logutil_output"`
}

// AppConfig aggregates the domain Config (the brain-growth/simulation
// tunables) with the ambient CLIConfig.
type AppConfig struct {
	Core Config
	Cli  CLIConfig
}

// DefaultCLIConfig returns sensible demo-friendly defaults for every mode's
// flags, used as the base layer before TOML/CLI overrides.
func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		Mode:               ModeSim,
		SnapshotFile:       "brain.json",
		Seed:               0,
		Neurons:            100,
		Connections:        0,
		Radius:             10.0,
		MinGrowthRange:     0.1,
		MaxGrowthRange:     1.0,
		Sensors:            1,
		Effectors:          1,
		NoLoopConnections:  true,
		Ticks:              1000,
		DeltaTime:          1.0,
		DbPath:             "",
		SaveInterval:       100,
		StimSensorIndex:    -1,
		StimRandomPercent:  0,
		StimPotential:      2.0,
		IgniteCount:        0,
		IgniteMinPotential: 0.5,
		IgniteMaxPotential: 2.0,
		LogUtilOutput:      "",
	}
}

// LoadTOMLFile decodes a TOML file into a fresh CLIConfig layered on top of
// DefaultCLIConfig, following the "defaults -> file -> flags" precedence
// each cmd subcommand applies.
func LoadTOMLFile(path string) (CLIConfig, error) {
	cfg := DefaultCLIConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode TOML config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks Cli and Core for consistency, with a per-mode switch for
// the fields that mode actually uses.
func (ac *AppConfig) Validate() error {
	modeValid := false
	for _, m := range SupportedModes {
		if ac.Cli.Mode == m {
			modeValid = true
			break
		}
	}
	if !modeValid {
		return fmt.Errorf("invalid mode '%s', supported modes are: %s", ac.Cli.Mode, strings.Join(SupportedModes, ", "))
	}

	switch ac.Cli.Mode {
	case ModeBuild:
		if ac.Cli.Neurons < 0 {
			return fmt.Errorf("neurons must be non-negative, got %d", ac.Cli.Neurons)
		}
		if ac.Cli.Radius <= 0 {
			return fmt.Errorf("radius must be positive, got %f", ac.Cli.Radius)
		}
		if ac.Cli.MaxGrowthRange < ac.Cli.MinGrowthRange {
			return fmt.Errorf("max_growth_range (%f) must be >= min_growth_range (%f)", ac.Cli.MaxGrowthRange, ac.Cli.MinGrowthRange)
		}
		if strings.TrimSpace(ac.Cli.SnapshotFile) == "" {
			return fmt.Errorf("snapshot_file must be specified for mode '%s'", ac.Cli.Mode)
		}
	case ModeSim:
		if ac.Cli.Ticks < 0 {
			return fmt.Errorf("ticks must be non-negative, got %d", ac.Cli.Ticks)
		}
		if ac.Cli.DeltaTime <= 0 {
			return fmt.Errorf("delta_time must be positive, got %f", ac.Cli.DeltaTime)
		}
		if ac.Cli.SaveInterval < 0 {
			return fmt.Errorf("save_interval must be non-negative, got %d", ac.Cli.SaveInterval)
		}
		if strings.TrimSpace(ac.Cli.SnapshotFile) == "" {
			return fmt.Errorf("snapshot_file must be specified for mode '%s'", ac.Cli.Mode)
		}
	case ModeObserve:
		if strings.TrimSpace(ac.Cli.SnapshotFile) == "" {
			return fmt.Errorf("snapshot_file must be specified for mode '%s'", ac.Cli.Mode)
		}
	case ModeLogUtil:
		if strings.TrimSpace(ac.Cli.DbPath) == "" {
			return fmt.Errorf("db_path must be specified for mode '%s'", ac.Cli.Mode)
		}
	}
	return nil
}

// CleanPaths normalizes file path fields via filepath.Clean.
func (ac *AppConfig) CleanPaths() {
	if ac.Cli.SnapshotFile != "" {
		ac.Cli.SnapshotFile = filepath.Clean(ac.Cli.SnapshotFile)
	}
	if ac.Cli.DbPath != "" {
		ac.Cli.DbPath = filepath.Clean(ac.Cli.DbPath)
	}
	if ac.Cli.LogUtilOutput != "" {
		ac.Cli.LogUtilOutput = filepath.Clean(ac.Cli.LogUtilOutput)
	}
}
