package cmd

import (
	"path/filepath"
	"testing"
)

// execRoot runs rootCmd with the given args and returns any error, driving
// the command tree directly rather than shelling out to the built binary.
func execRoot(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestBuildSimObserveLogUtilPipeline(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "brain.json")
	dbPath := filepath.Join(dir, "activity.db")
	exportPath := filepath.Join(dir, "export.json")

	if err := execRoot(t, "build", "--neurons", "10", "--connections", "2", "--sensors", "1", "--effectors", "1", "--out", snapshot); err != nil {
		t.Fatalf("build: %v", err)
	}

	if err := execRoot(t, "sim", "--snapshot", snapshot, "--ticks", "5", "--dbPath", dbPath, "--saveInterval", "1", "--stimSensorIndex", "0"); err != nil {
		t.Fatalf("sim: %v", err)
	}

	if err := execRoot(t, "observe", "--snapshot", snapshot); err != nil {
		t.Fatalf("observe: %v", err)
	}

	if err := execRoot(t, "logutil", "export", "--dbPath", dbPath, "--output", exportPath); err != nil {
		t.Fatalf("logutil export: %v", err)
	}
}

func TestBuildRejectsNonPositiveRadius(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "brain.json")
	if err := execRoot(t, "build", "--radius", "0", "--out", snapshot); err == nil {
		t.Fatalf("expected an error for a non-positive radius")
	}
}
