package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLiteLoggerLogTickWritesRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "activity.db")
	logger, err := NewSQLiteLogger(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteLogger: %v", err)
	}
	defer logger.Close()

	b := buildTestBrain()
	for tick := 0; tick < 3; tick++ {
		_ = b.Process(1)
		if err := logger.LogTick(tick, b); err != nil {
			t.Fatalf("LogTick(%d): %v", tick, err)
		}
	}

	var snapshotCount int
	if err := logger.DBForTest().QueryRow("SELECT COUNT(*) FROM BrainSnapshots").Scan(&snapshotCount); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if snapshotCount != 3 {
		t.Fatalf("BrainSnapshots rows = %d, want 3", snapshotCount)
	}
}

func TestExportLogToJSONRoundTripsThroughFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "activity.db")
	logger, err := NewSQLiteLogger(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteLogger: %v", err)
	}

	b := buildTestBrain()
	_ = b.Process(1)
	if err := logger.LogTick(0, b); err != nil {
		t.Fatalf("LogTick: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "export.json")
	if err := ExportLogToJSON(dbPath, outPath); err != nil {
		t.Fatalf("ExportLogToJSON: %v", err)
	}
}
