// Package storage provides data persistence for the simulation: a JSON
// snapshot codec for save/load of a single brain, and a SQLite activity-log
// codec for append-only per-tick recording.
package storage

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"synapsim/brain"
)

// SaveBrainToJSON serializes b's full entity graph and config to filePath as
// indented JSON.
func SaveBrainToJSON(b *brain.Brain, filePath string) error {
	data, err := json.MarshalIndent(b.ToSnapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize brain to JSON: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON snapshot file %s: %w", filePath, err)
	}
	return nil
}

// LoadBrainFromJSON deserializes a brain snapshot from filePath, seeding the
// resulting brain's randomness from rng.
func LoadBrainFromJSON(filePath string, rng *rand.Rand) (*brain.Brain, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("JSON snapshot file %s not found: %w", filePath, err)
		}
		return nil, fmt.Errorf("failed to read JSON snapshot file %s: %w", filePath, err)
	}

	var snapshot brain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal brain snapshot from %s: %w", filePath, err)
	}
	return brain.FromSnapshot(snapshot, rng), nil
}
