package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// BrainSnapshotRecord mirrors one row of the BrainSnapshots table.
type BrainSnapshotRecord struct {
	SnapshotID               int64     `json:"snapshot_id"`
	Tick                     int       `json:"tick"`
	Timestamp                string    `json:"timestamp"`
	NeuronsCount             int       `json:"neurons_count"`
	SynapsesCount            int       `json:"synapses_count"`
	ImpulsesCount            int       `json:"impulses_count"`
	NeuronPotentialCurrent   float64   `json:"neuron_potential_current"`
	NeuronPotentialMin       float64   `json:"neuron_potential_min"`
	NeuronPotentialMax       float64   `json:"neuron_potential_max"`
	CombinedPotentialCurrent float64   `json:"combined_potential_current"`
	Neurons                  []NeuronStateRecord `json:"neurons,omitempty"`
}

// NeuronStateRecord mirrors one row of the NeuronStates table.
type NeuronStateRecord struct {
	StateID   int64   `json:"state_id"`
	NeuronID  string  `json:"neuron_id"`
	Position  [3]float64 `json:"position"`
	Potential float64 `json:"potential"`
}

// ExportLogToJSON reads every BrainSnapshots row (and its NeuronStates rows)
// from the SQLite activity log at dbPath and writes them as a JSON array to
// outputPath, or os.Stdout if outputPath is empty.
func ExportLogToJSON(dbPath, outputPath string) error {
	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at %s: %w", dbPath, err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping SQLite database at %s: %w", dbPath, err)
	}

	records, err := readSnapshots(db)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode activity log as JSON: %w", err)
	}
	return nil
}

func readSnapshots(db *sql.DB) ([]BrainSnapshotRecord, error) {
	rows, err := db.Query(`SELECT SnapshotID, Tick, Timestamp, NeuronsCount, SynapsesCount, ImpulsesCount,
		NeuronPotentialCurrent, NeuronPotentialMin, NeuronPotentialMax, CombinedPotentialCurrent
		FROM BrainSnapshots ORDER BY SnapshotID`)
	if err != nil {
		return nil, fmt.Errorf("failed to query BrainSnapshots: %w", err)
	}
	defer rows.Close()

	var records []BrainSnapshotRecord
	for rows.Next() {
		var r BrainSnapshotRecord
		if err := rows.Scan(&r.SnapshotID, &r.Tick, &r.Timestamp, &r.NeuronsCount, &r.SynapsesCount,
			&r.ImpulsesCount, &r.NeuronPotentialCurrent, &r.NeuronPotentialMin, &r.NeuronPotentialMax,
			&r.CombinedPotentialCurrent); err != nil {
			return nil, fmt.Errorf("failed to scan BrainSnapshots row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		neurons, err := readNeuronStates(db, records[i].SnapshotID)
		if err != nil {
			return nil, err
		}
		records[i].Neurons = neurons
	}
	return records, nil
}

func readNeuronStates(db *sql.DB, snapshotID int64) ([]NeuronStateRecord, error) {
	rows, err := db.Query(`SELECT StateID, NeuronID, PositionX, PositionY, PositionZ, Potential
		FROM NeuronStates WHERE SnapshotID = ? ORDER BY StateID`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query NeuronStates for snapshot %d: %w", snapshotID, err)
	}
	defer rows.Close()

	var out []NeuronStateRecord
	for rows.Next() {
		var r NeuronStateRecord
		if err := rows.Scan(&r.StateID, &r.NeuronID, &r.Position[0], &r.Position[1], &r.Position[2], &r.Potential); err != nil {
			return nil, fmt.Errorf("failed to scan NeuronStates row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
