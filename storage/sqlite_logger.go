package storage

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"synapsim/brain"
)

// SQLiteLogger appends one transactional batch per requested tick snapshot
// to a fresh SQLite database, for post-hoc analysis of a run's activity.
// Unlike the JSON snapshot codec this is write-only: it logs a time series,
// not a single round-trippable state.
type SQLiteLogger struct {
	db *sql.DB
}

// NewSQLiteLogger opens (recreating) a SQLite database at dataSourceName and
// creates its schema.
func NewSQLiteLogger(dataSourceName string) (*SQLiteLogger, error) {
	_ = os.Remove(dataSourceName)

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database at %s: %w", dataSourceName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database at %s: %w", dataSourceName, err)
	}

	logger := &SQLiteLogger{db: db}
	if err := logger.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create SQLite schema: %w", err)
	}
	return logger, nil
}

func (sl *SQLiteLogger) createTables() error {
	const snapshotsTableSQL = `
	CREATE TABLE IF NOT EXISTS BrainSnapshots (
		SnapshotID INTEGER PRIMARY KEY AUTOINCREMENT,
		Tick INTEGER NOT NULL,
		Timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		NeuronsCount INTEGER,
		SynapsesCount INTEGER,
		ImpulsesCount INTEGER,
		NeuronPotentialCurrent REAL,
		NeuronPotentialMin REAL,
		NeuronPotentialMax REAL,
		CombinedPotentialCurrent REAL
	);`
	if _, err := sl.db.Exec(snapshotsTableSQL); err != nil {
		return fmt.Errorf("failed to create BrainSnapshots table: %w", err)
	}

	const neuronStatesTableSQL = `
	CREATE TABLE IF NOT EXISTS NeuronStates (
		StateID INTEGER PRIMARY KEY AUTOINCREMENT,
		SnapshotID INTEGER NOT NULL,
		NeuronID TEXT NOT NULL,
		PositionX REAL,
		PositionY REAL,
		PositionZ REAL,
		Potential REAL,
		FOREIGN KEY (SnapshotID) REFERENCES BrainSnapshots (SnapshotID) ON DELETE CASCADE
	);`
	if _, err := sl.db.Exec(neuronStatesTableSQL); err != nil {
		return fmt.Errorf("failed to create NeuronStates table: %w", err)
	}
	return nil
}

// DBForTest exposes the underlying *sql.DB for assertions in tests.
func (sl *SQLiteLogger) DBForTest() *sql.DB {
	return sl.db
}

// LogTick appends one snapshot row plus one per-neuron state row for b's
// current state, tagged with tick.
func (sl *SQLiteLogger) LogTick(tick int, b *brain.Brain) error {
	if sl.db == nil {
		return fmt.Errorf("SQLite logger not initialized")
	}

	stats := b.BuildActivityStats()
	snapshot := b.ToSnapshot()

	tx, err := sl.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin SQLite transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO BrainSnapshots
		(Tick, Timestamp, NeuronsCount, SynapsesCount, ImpulsesCount,
		 NeuronPotentialCurrent, NeuronPotentialMin, NeuronPotentialMax, CombinedPotentialCurrent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tick, time.Now(), stats.NeuronsCount, stats.SynapsesCount, stats.ImpulsesCount,
		stats.NeuronPotentialCurrent, stats.NeuronPotentialMin, stats.NeuronPotentialMax,
		stats.CombinedPotentialCurrent,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into BrainSnapshots: %w", err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id for snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO NeuronStates
		(SnapshotID, NeuronID, PositionX, PositionY, PositionZ, Potential)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare NeuronStates insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range snapshot.Neurons {
		if _, err := stmt.Exec(snapshotID, n.ID.String(), n.Position.X, n.Position.Y, n.Position.Z, n.Potential); err != nil {
			return fmt.Errorf("failed to insert neuron state for %s: %w", n.ID.String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit SQLite transaction: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (sl *SQLiteLogger) Close() error {
	if sl.db != nil {
		return sl.db.Close()
	}
	return nil
}
