// Package production provides production integrations for an app.App:
// snapshot persistence, change publishing, metrics, visualization and
// tracing setup.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
)

// JSONPersister is a file-based persister using JSON serialization. Each
// world is stored as <dir>/<worldID>.json.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snap ecs.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeSnapshot(filepath.Join(p.dir, snap.WorldID+".json"), data)
}

func (p *JSONPersister) Load(ctx context.Context, worldID string) (ecs.Snapshot, error) {
	data, err := readSnapshot(filepath.Join(p.dir, worldID+".json"), worldID)
	if err != nil {
		return ecs.Snapshot{}, err
	}
	var snap ecs.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ecs.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snap.WorldID = worldID // Ensure ID
	return snap, nil
}

// YAMLPersister is a file-based persister using YAML serialization. Each
// world is stored as <dir>/<worldID>.yaml.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snap ecs.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeSnapshot(filepath.Join(p.dir, snap.WorldID+".yaml"), data)
}

func (p *YAMLPersister) Load(ctx context.Context, worldID string) (ecs.Snapshot, error) {
	data, err := readSnapshot(filepath.Join(p.dir, worldID+".yaml"), worldID)
	if err != nil {
		return ecs.Snapshot{}, err
	}
	var snap ecs.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return ecs.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snap.WorldID = worldID
	return snap, nil
}

func writeSnapshot(fn string, data []byte) error {
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func readSnapshot(fn, worldID string) ([]byte, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("world %q: %w: %w", worldID, app.ErrSnapshotNotFound, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}
