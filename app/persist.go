package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/comalice/superstate/ecs"
)

var (
	// ErrNoPersister is returned by Save and Load when no persister is set.
	ErrNoPersister = errors.New("no persister configured")
	// ErrSnapshotNotFound is wrapped by persisters when no snapshot exists
	// for a world id.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Persister stores world snapshots keyed by world id.
type Persister interface {
	Save(ctx context.Context, snap ecs.Snapshot) error
	Load(ctx context.Context, worldID string) (ecs.Snapshot, error)
}

// Save snapshots the world and hands it to the persister.
func (a *App) Save(ctx context.Context) error {
	if a.persister == nil {
		return ErrNoPersister
	}
	a.mu.Lock()
	snap, err := a.world.Snapshot()
	a.mu.Unlock()
	if err != nil {
		return fmt.Errorf("save %s: %w", a.cfg.WorldID, err)
	}
	if err := a.persister.Save(ctx, snap); err != nil {
		return fmt.Errorf("save %s: %w", a.cfg.WorldID, err)
	}
	return nil
}

// Load restores the world from the persister. The world must be empty and
// every persisted component must already be registered, so add plugins
// before calling Load.
func (a *App) Load(ctx context.Context) error {
	if a.persister == nil {
		return ErrNoPersister
	}
	snap, err := a.persister.Load(ctx, a.cfg.WorldID)
	if err != nil {
		return fmt.Errorf("load %s: %w", a.cfg.WorldID, err)
	}
	return a.Do(func(w *ecs.World) error {
		return w.Restore(snap)
	})
}
