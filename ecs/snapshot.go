package ecs

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// EntitySnapshot holds one entity's persistent components keyed by type name.
// Values are plain JSON-compatible data (maps, slices, numbers, strings).
type EntitySnapshot struct {
	ID         Entity         `json:"id" yaml:"id"`
	Components map[string]any `json:"components" yaml:"components"`
}

// Snapshot is the serializable state of a World. Transient components are
// not included; they are rebuilt by hooks and required components on Restore.
type Snapshot struct {
	WorldID   string           `json:"worldID" yaml:"worldID"`
	Entities  []EntitySnapshot `json:"entities" yaml:"entities"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
}

// Snapshot captures all entities and their non-transient components.
func (w *World) Snapshot() (Snapshot, error) {
	snap := Snapshot{
		WorldID:   w.id,
		Entities:  make([]EntitySnapshot, 0, len(w.entities)),
		Timestamp: time.Now().UTC(),
	}
	for _, e := range w.Entities() {
		es := EntitySnapshot{ID: e, Components: map[string]any{}}
		for _, id := range sortedIDs(w.entities[e]) {
			info, _ := w.components.Info(id)
			if info.IsTransient() {
				continue
			}
			data, err := json.Marshal(w.entities[e][id])
			if err != nil {
				return Snapshot{}, fmt.Errorf("snapshot %v %s: %w", e, info.Name(), err)
			}
			var plain any
			if err := json.Unmarshal(data, &plain); err != nil {
				return Snapshot{}, fmt.Errorf("snapshot %v %s: %w", e, info.Name(), err)
			}
			es.Components[info.Name()] = plain
		}
		snap.Entities = append(snap.Entities, es)
	}
	return snap, nil
}

// Restore recreates the entities of snap in an empty world, keeping their
// ids. Every component name must already be registered. Each entity's
// components are inserted together, so hooks and required components run as
// they would for a live insert. On error the world may be partially restored.
func (w *World) Restore(snap Snapshot) error {
	if len(w.entities) > 0 {
		return fmt.Errorf("restore %s: %w", snap.WorldID, ErrWorldNotEmpty)
	}
	for _, es := range snap.Entities {
		names := make([]string, 0, len(es.Components))
		for name := range es.Components {
			names = append(names, name)
		}
		sort.Strings(names)

		values := make([]any, 0, len(names))
		for _, name := range names {
			id, ok := w.components.Lookup(name)
			if !ok {
				return fmt.Errorf("restore %v: component %q: %w", es.ID, name, ErrUnknownComponent)
			}
			info, _ := w.components.Info(id)
			data, err := json.Marshal(es.Components[name])
			if err != nil {
				return fmt.Errorf("restore %v %s: %w", es.ID, name, err)
			}
			v := info.typ.zero()
			if err := json.Unmarshal(data, v); err != nil {
				return fmt.Errorf("restore %v %s: %w", es.ID, name, err)
			}
			values = append(values, v)
		}

		w.entities[es.ID] = make(map[ComponentID]any, len(values))
		if es.ID >= w.next {
			w.next = es.ID + 1
		}
		if err := w.applyInsert(es.ID, values); err != nil {
			return fmt.Errorf("restore %v: %w", es.ID, err)
		}
	}
	w.Flush()
	return nil
}
