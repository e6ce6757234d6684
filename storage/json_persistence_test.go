package storage

import (
	"math/rand"
	"path/filepath"
	"testing"

	"synapsim/brain"
	"synapsim/config"
)

func buildTestBrain() *brain.Brain {
	bb := brain.DefaultBrainBuilder()
	bb.Neurons = 8
	bb.Connections = 2
	bb.Sensors = 1
	bb.Effectors = 1
	return bb.Build(rand.New(rand.NewSource(1)))
}

func TestSaveAndLoadBrainRoundTrips(t *testing.T) {
	original := buildTestBrain()
	path := filepath.Join(t.TempDir(), "brain.json")

	if err := SaveBrainToJSON(original, path); err != nil {
		t.Fatalf("SaveBrainToJSON: %v", err)
	}

	loaded, err := LoadBrainFromJSON(path, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("LoadBrainFromJSON: %v", err)
	}

	want := original.ToSnapshot()
	got := loaded.ToSnapshot()

	if got.ID != want.ID {
		t.Fatalf("ID = %v, want %v", got.ID, want.ID)
	}
	if len(got.Neurons) != len(want.Neurons) {
		t.Fatalf("Neurons count = %d, want %d", len(got.Neurons), len(want.Neurons))
	}
	if len(got.Synapses) != len(want.Synapses) {
		t.Fatalf("Synapses count = %d, want %d", len(got.Synapses), len(want.Synapses))
	}
	if got.Config != (config.Config{}) && got.Config.PropagationSpeed != want.Config.PropagationSpeed {
		t.Fatalf("Config.PropagationSpeed = %v, want %v", got.Config.PropagationSpeed, want.Config.PropagationSpeed)
	}
}

func TestLoadBrainFromJSONMissingFile(t *testing.T) {
	_, err := LoadBrainFromJSON(filepath.Join(t.TempDir(), "missing.json"), rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatalf("expected an error loading a missing snapshot file")
	}
}
