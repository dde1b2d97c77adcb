package records

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"slotting.dev/slotting/internal/engine"
)

// checkpointVersion is bumped when the checkpoint layout changes
const checkpointVersion = 1

// Checkpoint is a stopped search saved for resuming
type Checkpoint struct {
	Version  int              `yaml:"version"`
	RunID    string           `yaml:"run_id,omitempty"`
	SavedAt  time.Time        `yaml:"saved_at"`
	Frontier *engine.Frontier `yaml:"frontier"`
}

// WriteCheckpoint saves a frontier as YAML
func WriteCheckpoint(path, runID string, frontier *engine.Frontier) error {
	cp := Checkpoint{
		Version:  checkpointVersion,
		RunID:    runID,
		SavedAt:  time.Now().UTC(),
		Frontier: frontier,
	}
	data, err := yaml.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// ReadCheckpoint loads a checkpoint written by WriteCheckpoint
func ReadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	var cp Checkpoint
	if err := yaml.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint: %w", err)
	}
	if cp.Version != checkpointVersion {
		return nil, fmt.Errorf("checkpoint %s has version %d, want %d", path, cp.Version, checkpointVersion)
	}
	if cp.Frontier == nil {
		return nil, fmt.Errorf("checkpoint %s has no frontier", path)
	}
	return &cp, nil
}
