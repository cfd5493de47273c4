// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
	"github.com/comalice/superstate/testutil"
)

// Gaits cycles through the Movement states in order.
var Gaits = []any{testutil.Walking{}, testutil.Running{}, testutil.Flying{}}

// NewMovementWorld creates a world with Movement and Stance registered and n
// entities, each walking and standing.
func NewMovementWorld(n int) (*ecs.World, []ecs.Entity) {
	w := ecs.NewWorld(ecs.WithID(fmt.Sprintf("bench_%d", n)))
	if err := testutil.RegisterMovement(w); err != nil {
		panic(err)
	}
	if err := testutil.RegisterStance(w); err != nil {
		panic(err)
	}
	entities := make([]ecs.Entity, n)
	for i := range entities {
		e, err := w.Spawn(testutil.Walking{}, testutil.Standing{})
		if err != nil {
			panic(err)
		}
		entities[i] = e
	}
	return w, entities
}

// NewMovementApp is NewMovementWorld behind a tick runtime.
func NewMovementApp(cfg app.Config, n int) (*app.App, []ecs.Entity) {
	a := app.New(cfg)
	if err := a.AddPlugins(testutil.MovementPlugin(), testutil.StancePlugin()); err != nil {
		panic(err)
	}
	entities := make([]ecs.Entity, n)
	_ = a.Do(func(w *ecs.World) error {
		for i := range entities {
			e, err := w.Spawn(testutil.Walking{}, testutil.Standing{})
			if err != nil {
				return err
			}
			entities[i] = e
		}
		return nil
	})
	return a, entities
}

// GenSnapshotYAML generates YAML bytes for a snapshot of n entities after
// one state change each.
func GenSnapshotYAML(n int) []byte {
	w, entities := NewMovementWorld(n)
	for _, e := range entities {
		w.Commands().Entity(e).Insert(testutil.Running{Speed: 3})
	}
	w.Flush()
	snap, err := w.Snapshot()
	if err != nil {
		panic(err)
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		panic(err)
	}
	return data
}
